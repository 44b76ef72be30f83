// Package render turns validated request data into certificate bytes.
// The byte format is deliberately open: the renderer sits behind an
// interface so a richer typesetting backend can replace the default
// without touching the issuance rules.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"time"
)

// ErrRender is returned when certificate rendering fails
var ErrRender = errors.New("certificate rendering failed")

// CertificateData carries every printable field of the constancia
type CertificateData struct {
	RequestID      string
	RequestType    string
	Title          string
	DeedNumber     string
	DeedYear       string
	Notary         string
	Parties        string
	RequesterName  string
	RequesterEmail string
	TransactionID  string
	RequestedAt    time.Time
	IssuedAt       time.Time
}

// CertificateRenderer renders certificate bytes from validated data
type CertificateRenderer interface {
	Render(data CertificateData) ([]byte, error)
}

// ConstanciaRenderer is the default renderer. It emits the "Constancia de
// Trámite" document of the Colegio de Escribanos as a UTF-8 text layout.
type ConstanciaRenderer struct{}

// NewConstanciaRenderer creates the default certificate renderer
func NewConstanciaRenderer() *ConstanciaRenderer {
	return &ConstanciaRenderer{}
}

// Render produces the certificate document
func (r *ConstanciaRenderer) Render(data CertificateData) ([]byte, error) {
	if data.RequestID == "" || data.TransactionID == "" {
		return nil, fmt.Errorf("%w: missing request or transaction reference", ErrRender)
	}

	var buf bytes.Buffer

	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&buf, format+"\n", args...)
	}

	rule := "============================================================"

	line(rule)
	line("                    NOTARÍA DIGITAL")
	line("                 Constancia de Trámite")
	line(rule)
	line("")
	field(&buf, "ID de Trámite", data.RequestID)
	field(&buf, "Escritura", fmt.Sprintf("%s / %s", data.DeedNumber, data.DeedYear))
	field(&buf, "Escribano", data.Notary)
	field(&buf, "Partes", data.Parties)
	field(&buf, "Tipo de Trámite", data.RequestType)
	field(&buf, "Solicitante", data.RequesterName)
	field(&buf, "Email", data.RequesterEmail)
	field(&buf, "Fecha de Solicitud", data.RequestedAt.Format("02/01/2006"))
	line("")
	line("                   Estado: PAGADO")
	line("")
	field(&buf, "ID de Transacción", data.TransactionID)
	field(&buf, "Fecha de Emisión", data.IssuedAt.Format("02/01/2006 15:04"))
	line("")
	line(rule)
	line("© %d Colegio de Escribanos | Documento generado automáticamente", data.IssuedAt.Year())

	return buf.Bytes(), nil
}

func field(buf *bytes.Buffer, label, value string) {
	if value == "" {
		value = "N/A"
	}
	fmt.Fprintf(buf, "%-22s %s\n", label+":", value)
}
