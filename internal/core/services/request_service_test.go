package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notaria-digital/internal/adapters/payment"
	"notaria-digital/internal/core/domain"
)

var (
	adminCaller    = domain.Identity{UserID: "u-admin", Email: "admin@notaria.test", Role: domain.RoleAdmin}
	employeeCaller = domain.Identity{UserID: "u-emp", Email: "empleado@notaria.test", Role: domain.RoleEmployee}
	clientCaller   = domain.Identity{UserID: "u-client", Email: "cliente@notaria.test", Role: domain.RoleClient}
	strangerCaller = domain.Identity{UserID: "u-stranger", Email: "otro@notaria.test", Role: domain.RoleClient}
)

// stubRequestRepo is an in-memory RequestRepository honoring the same
// conditional-write contract as the MySQL implementation.
type stubRequestRepo struct {
	mu       sync.Mutex
	requests map[string]*domain.Request
	seq      int

	// afterGet, when set, runs once after the next GetByID. Used to
	// interleave a concurrent writer between load and store.
	afterGet func()
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{requests: make(map[string]*domain.Request)}
}

func (r *stubRequestRepo) Create(_ context.Context, req *domain.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	req.ID = fmt.Sprintf("req-%d", r.seq)
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *stubRequestRepo) GetByID(_ context.Context, id string) (*domain.Request, error) {
	r.mu.Lock()
	stored, ok := r.requests[id]
	var cp domain.Request
	if ok {
		cp = *stored
	}
	hook := r.afterGet
	r.afterGet = nil
	r.mu.Unlock()

	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	if hook != nil {
		hook()
	}
	return &cp, nil
}

func (r *stubRequestRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Request
	for _, req := range r.requests {
		if req.OwnerID == ownerID {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *stubRequestRepo) ListAll(_ context.Context) ([]*domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Request
	for _, req := range r.requests {
		cp := *req
		out = append(out, &cp)
	}
	return out, nil
}

func (r *stubRequestRepo) ListByStatus(_ context.Context, status domain.Status) ([]*domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Request
	for _, req := range r.requests {
		if req.Status == status {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *stubRequestRepo) UpdateStatus(_ context.Context, req *domain.Request, expected domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.requests[req.ID]
	if !ok {
		return domain.ErrRequestNotFound
	}
	if stored.Status != expected {
		return domain.ErrStatusConflict
	}
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *stubRequestRepo) MarkValidated(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.requests[id]
	if !ok {
		return domain.ErrRequestNotFound
	}
	if stored.Status != domain.StatusPaid || stored.PdfValidated {
		return domain.ErrStatusConflict
	}
	stored.PdfValidated = true
	return nil
}

// stored returns the persisted request, bypassing the service
func (r *stubRequestRepo) stored(t *testing.T, id string) *domain.Request {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	require.True(t, ok, "request %s not stored", id)
	cp := *req
	return &cp
}

// stubProcessor returns a canned session or error and counts calls
type stubProcessor struct {
	session *payment.Session
	err     error
	calls   int
}

func (p *stubProcessor) CreateSession(_ context.Context, _ string, _ float64) (*payment.Session, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.session, nil
}

func newTestRequestService(processor payment.Processor) (*RequestService, *stubRequestRepo) {
	repo := newStubRequestRepo()
	if processor == nil {
		processor = payment.NewSimulatedProcessor()
	}
	return NewRequestService(repo, processor), repo
}

func validInput() *CreateRequestInput {
	return &CreateRequestInput{
		RequestType: domain.RequestTypeEntryCopy,
		DeedNumber:  "1234",
		DeedYear:    "2023",
		Notary:      "Dr. Gómez",
		Parties:     "Pérez / García",
	}
}

func createRequest(t *testing.T, svc *RequestService) *domain.Request {
	t.Helper()
	req, err := svc.Create(context.Background(), clientCaller, validInput())
	require.NoError(t, err)
	return req
}

func TestRequestServiceCreate(t *testing.T) {
	t.Run("client creates pending request", func(t *testing.T) {
		svc, repo := newTestRequestService(nil)

		req, err := svc.Create(context.Background(), clientCaller, validInput())

		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, req.Status)
		assert.Equal(t, clientCaller.UserID, req.OwnerID)
		assert.Equal(t, "Escritura N° 1234 (2023)", req.Title)
		assert.Equal(t, domain.StatusPending, repo.stored(t, req.ID).Status)
	})

	t.Run("staff cannot create requests", func(t *testing.T) {
		svc, _ := newTestRequestService(nil)

		_, err := svc.Create(context.Background(), employeeCaller, validInput())
		assert.ErrorIs(t, err, domain.ErrForbidden)

		_, err = svc.Create(context.Background(), adminCaller, validInput())
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		svc, _ := newTestRequestService(nil)

		bad := validInput()
		bad.RequestType = "Testimonio"
		_, err := svc.Create(context.Background(), clientCaller, bad)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		bad = validInput()
		bad.DeedNumber = "   "
		_, err = svc.Create(context.Background(), clientCaller, bad)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		bad = validInput()
		bad.DeedYear = "23"
		_, err = svc.Create(context.Background(), clientCaller, bad)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestRequestServiceGetByID(t *testing.T) {
	svc, _ := newTestRequestService(nil)
	req := createRequest(t, svc)

	t.Run("owner reads own request", func(t *testing.T) {
		got, err := svc.GetByID(context.Background(), clientCaller, req.ID)
		require.NoError(t, err)
		assert.Equal(t, req.ID, got.ID)
	})

	t.Run("staff reads any request", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), employeeCaller, req.ID)
		assert.NoError(t, err)
	})

	t.Run("other client is forbidden, not told it does not exist", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), strangerCaller, req.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), employeeCaller, "req-missing")
		assert.ErrorIs(t, err, domain.ErrRequestNotFound)
	})
}

func TestRequestServiceListing(t *testing.T) {
	svc, _ := newTestRequestService(nil)
	createRequest(t, svc)
	createRequest(t, svc)

	t.Run("client lists own requests", func(t *testing.T) {
		list, err := svc.ListOwned(context.Background(), clientCaller)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("other client sees nothing", func(t *testing.T) {
		list, err := svc.ListOwned(context.Background(), strangerCaller)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("staff has no owned listing", func(t *testing.T) {
		_, err := svc.ListOwned(context.Background(), employeeCaller)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("staff lists all", func(t *testing.T) {
		list, err := svc.ListAll(context.Background(), employeeCaller)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("client cannot list all", func(t *testing.T) {
		_, err := svc.ListAll(context.Background(), clientCaller)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestRequestServiceApprove(t *testing.T) {
	t.Run("employee approves pending request", func(t *testing.T) {
		svc, repo := newTestRequestService(nil)
		req := createRequest(t, svc)

		approved, err := svc.Approve(context.Background(), employeeCaller, req.ID, 2500)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, approved.Status)
		require.NotNil(t, approved.Amount)
		assert.Equal(t, 2500.0, *approved.Amount)
		assert.Equal(t, domain.StatusApproved, repo.stored(t, req.ID).Status)
	})

	t.Run("client cannot approve", func(t *testing.T) {
		svc, repo := newTestRequestService(nil)
		req := createRequest(t, svc)

		_, err := svc.Approve(context.Background(), clientCaller, req.ID, 2500)

		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Equal(t, domain.StatusPending, repo.stored(t, req.ID).Status)
	})

	t.Run("rejects non-positive amount without mutating", func(t *testing.T) {
		svc, repo := newTestRequestService(nil)
		req := createRequest(t, svc)

		_, err := svc.Approve(context.Background(), employeeCaller, req.ID, 0)

		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
		assert.Equal(t, domain.StatusPending, repo.stored(t, req.ID).Status)
	})

	t.Run("approve after reject conflicts", func(t *testing.T) {
		svc, repo := newTestRequestService(nil)
		req := createRequest(t, svc)
		_, err := svc.Reject(context.Background(), employeeCaller, req.ID, "Falta escribano")
		require.NoError(t, err)

		_, err = svc.Approve(context.Background(), adminCaller, req.ID, 100)

		assert.ErrorIs(t, err, domain.ErrStatusConflict)
		stored := repo.stored(t, req.ID)
		assert.Equal(t, domain.StatusRejected, stored.Status)
		assert.Nil(t, stored.Amount)
	})

	t.Run("concurrent writer wins, stale approve conflicts", func(t *testing.T) {
		svc, repo := newTestRequestService(nil)
		req := createRequest(t, svc)

		// A second reviewer rejects between this caller's load and store
		repo.afterGet = func() {
			_, err := svc.Reject(context.Background(), adminCaller, req.ID, "duplicada")
			require.NoError(t, err)
		}

		_, err := svc.Approve(context.Background(), employeeCaller, req.ID, 100)

		assert.ErrorIs(t, err, domain.ErrStatusConflict)
		assert.Equal(t, domain.StatusRejected, repo.stored(t, req.ID).Status)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		svc, _ := newTestRequestService(nil)
		_, err := svc.Approve(context.Background(), employeeCaller, "req-missing", 100)
		assert.ErrorIs(t, err, domain.ErrRequestNotFound)
	})
}

func TestRequestServiceReject(t *testing.T) {
	t.Run("employee rejects with reason", func(t *testing.T) {
		svc, repo := newTestRequestService(nil)
		req := createRequest(t, svc)

		rejected, err := svc.Reject(context.Background(), employeeCaller, req.ID, "Falta escribano")

		require.NoError(t, err)
		assert.Equal(t, domain.StatusRejected, rejected.Status)
		stored := repo.stored(t, req.ID)
		require.NotNil(t, stored.RejectionReason)
		assert.Equal(t, "Falta escribano", *stored.RejectionReason)
	})

	t.Run("requires a reason", func(t *testing.T) {
		svc, _ := newTestRequestService(nil)
		req := createRequest(t, svc)

		_, err := svc.Reject(context.Background(), employeeCaller, req.ID, "   ")
		assert.ErrorIs(t, err, domain.ErrReasonRequired)
	})

	t.Run("client cannot reject", func(t *testing.T) {
		svc, _ := newTestRequestService(nil)
		req := createRequest(t, svc)

		_, err := svc.Reject(context.Background(), clientCaller, req.ID, "motivo")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestRequestServiceInitiatePayment(t *testing.T) {
	approve := func(t *testing.T, svc *RequestService, id string) {
		t.Helper()
		_, err := svc.Approve(context.Background(), employeeCaller, id, 1800)
		require.NoError(t, err)
	}

	t.Run("simulated processor settles synchronously", func(t *testing.T) {
		svc, repo := newTestRequestService(nil)
		req := createRequest(t, svc)
		approve(t, svc, req.ID)

		paid, session, err := svc.InitiatePayment(context.Background(), clientCaller, req.ID)

		require.NoError(t, err)
		assert.True(t, session.Settled())
		assert.Equal(t, domain.StatusPaid, paid.Status)
		stored := repo.stored(t, req.ID)
		assert.Equal(t, domain.StatusPaid, stored.Status)
		require.NotNil(t, stored.TransactionID)
		assert.Contains(t, *stored.TransactionID, "MACRO-")
		assert.False(t, stored.PdfValidated)
	})

	t.Run("external processor leaves request approved", func(t *testing.T) {
		processor := &stubProcessor{session: &payment.Session{RedirectURL: "https://pagos.macro.com.ar/s/abc"}}
		svc, repo := newTestRequestService(processor)
		req := createRequest(t, svc)
		approve(t, svc, req.ID)

		got, session, err := svc.InitiatePayment(context.Background(), clientCaller, req.ID)

		require.NoError(t, err)
		assert.False(t, session.Settled())
		assert.Equal(t, "https://pagos.macro.com.ar/s/abc", session.RedirectURL)
		assert.Equal(t, domain.StatusApproved, got.Status)
		assert.Equal(t, domain.StatusApproved, repo.stored(t, req.ID).Status)
	})

	t.Run("processor failure leaves stored state untouched", func(t *testing.T) {
		processor := &stubProcessor{err: fmt.Errorf("%w: connection refused", domain.ErrUpstreamFailure)}
		svc, repo := newTestRequestService(processor)
		req := createRequest(t, svc)
		approve(t, svc, req.ID)

		_, _, err := svc.InitiatePayment(context.Background(), clientCaller, req.ID)

		assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
		stored := repo.stored(t, req.ID)
		assert.Equal(t, domain.StatusApproved, stored.Status)
		assert.Nil(t, stored.TransactionID)
	})

	t.Run("pending request conflicts before calling processor", func(t *testing.T) {
		processor := &stubProcessor{session: &payment.Session{TransactionID: "MACRO-1-ABC"}}
		svc, _ := newTestRequestService(processor)
		req := createRequest(t, svc)

		_, _, err := svc.InitiatePayment(context.Background(), clientCaller, req.ID)

		assert.ErrorIs(t, err, domain.ErrStatusConflict)
		assert.Zero(t, processor.calls)
	})

	t.Run("paying twice conflicts", func(t *testing.T) {
		svc, _ := newTestRequestService(nil)
		req := createRequest(t, svc)
		approve(t, svc, req.ID)
		_, _, err := svc.InitiatePayment(context.Background(), clientCaller, req.ID)
		require.NoError(t, err)

		_, _, err = svc.InitiatePayment(context.Background(), clientCaller, req.ID)
		assert.ErrorIs(t, err, domain.ErrStatusConflict)
	})

	t.Run("other client cannot pay", func(t *testing.T) {
		svc, _ := newTestRequestService(nil)
		req := createRequest(t, svc)
		approve(t, svc, req.ID)

		_, _, err := svc.InitiatePayment(context.Background(), strangerCaller, req.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestRequestServiceConfirmPayment(t *testing.T) {
	setup := func(t *testing.T) (*RequestService, *stubRequestRepo, string) {
		t.Helper()
		processor := &stubProcessor{session: &payment.Session{RedirectURL: "https://pagos.macro.com.ar/s/abc"}}
		svc, repo := newTestRequestService(processor)
		req := createRequest(t, svc)
		_, err := svc.Approve(context.Background(), employeeCaller, req.ID, 1800)
		require.NoError(t, err)
		return svc, repo, req.ID
	}

	t.Run("confirms approved request", func(t *testing.T) {
		svc, repo, id := setup(t)

		confirmed, err := svc.ConfirmPayment(context.Background(), id, "MACRO-99-XYZ")

		require.NoError(t, err)
		assert.Equal(t, domain.StatusPaid, confirmed.Status)
		stored := repo.stored(t, id)
		require.NotNil(t, stored.TransactionID)
		assert.Equal(t, "MACRO-99-XYZ", *stored.TransactionID)
	})

	t.Run("duplicate confirmation conflicts and keeps first reference", func(t *testing.T) {
		svc, repo, id := setup(t)
		_, err := svc.ConfirmPayment(context.Background(), id, "MACRO-99-XYZ")
		require.NoError(t, err)

		_, err = svc.ConfirmPayment(context.Background(), id, "MACRO-100-AAA")

		assert.ErrorIs(t, err, domain.ErrStatusConflict)
		assert.Equal(t, "MACRO-99-XYZ", *repo.stored(t, id).TransactionID)
	})

	t.Run("requires transaction id", func(t *testing.T) {
		svc, _, id := setup(t)
		_, err := svc.ConfirmPayment(context.Background(), id, "  ")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		svc, _, _ := setup(t)
		_, err := svc.ConfirmPayment(context.Background(), "req-missing", "MACRO-99-XYZ")
		assert.ErrorIs(t, err, domain.ErrRequestNotFound)
	})
}

func TestRequestServiceValidatePDF(t *testing.T) {
	paid := func(t *testing.T) (*RequestService, *stubRequestRepo, string) {
		t.Helper()
		svc, repo := newTestRequestService(nil)
		req := createRequest(t, svc)
		_, err := svc.Approve(context.Background(), employeeCaller, req.ID, 1800)
		require.NoError(t, err)
		_, _, err = svc.InitiatePayment(context.Background(), clientCaller, req.ID)
		require.NoError(t, err)
		return svc, repo, req.ID
	}

	t.Run("staff validates paid request", func(t *testing.T) {
		svc, repo, id := paid(t)

		_, err := svc.ValidatePDF(context.Background(), employeeCaller, id)

		require.NoError(t, err)
		assert.True(t, repo.stored(t, id).PdfValidated)
	})

	t.Run("second validation conflicts", func(t *testing.T) {
		svc, _, id := paid(t)
		_, err := svc.ValidatePDF(context.Background(), employeeCaller, id)
		require.NoError(t, err)

		_, err = svc.ValidatePDF(context.Background(), adminCaller, id)
		assert.ErrorIs(t, err, domain.ErrStatusConflict)
	})

	t.Run("owner cannot validate", func(t *testing.T) {
		svc, repo, id := paid(t)

		_, err := svc.ValidatePDF(context.Background(), clientCaller, id)

		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.False(t, repo.stored(t, id).PdfValidated)
	})

	t.Run("unpaid request conflicts", func(t *testing.T) {
		svc, _ := newTestRequestService(nil)
		req := createRequest(t, svc)

		_, err := svc.ValidatePDF(context.Background(), employeeCaller, req.ID)
		assert.ErrorIs(t, err, domain.ErrStatusConflict)
	})
}

// Full lifecycle: submit, quote, pay, validate, ready for issuance.
func TestRequestLifecycleHappyPath(t *testing.T) {
	svc, repo := newTestRequestService(nil)
	ctx := context.Background()

	req := createRequest(t, svc)
	assert.Equal(t, domain.StatusPending, req.Status)

	_, err := svc.Approve(ctx, employeeCaller, req.ID, 3500)
	require.NoError(t, err)

	_, session, err := svc.InitiatePayment(ctx, clientCaller, req.ID)
	require.NoError(t, err)
	assert.True(t, session.Settled())

	_, err = svc.ValidatePDF(ctx, employeeCaller, req.ID)
	require.NoError(t, err)

	stored := repo.stored(t, req.ID)
	assert.Equal(t, domain.StatusPaid, stored.Status)
	assert.True(t, stored.CertificateReady())
}

// Rejected requests are terminal: no payment, no certificate.
func TestRequestLifecycleRejected(t *testing.T) {
	svc, repo := newTestRequestService(nil)
	ctx := context.Background()

	req := createRequest(t, svc)

	_, err := svc.Reject(ctx, employeeCaller, req.ID, "Falta escribano")
	require.NoError(t, err)

	_, _, err = svc.InitiatePayment(ctx, clientCaller, req.ID)
	assert.ErrorIs(t, err, domain.ErrStatusConflict)

	_, err = svc.ValidatePDF(ctx, employeeCaller, req.ID)
	assert.ErrorIs(t, err, domain.ErrStatusConflict)

	stored := repo.stored(t, req.ID)
	assert.Equal(t, domain.StatusRejected, stored.Status)
	assert.False(t, stored.CertificateReady())
}
