package bankreg

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

func WriteStatement(w io.Writer, info AccountInfo, at time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Statement %s", info.AcctID), false)
	pdf.SetCreationDate(at)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Account statement")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 12)
	rows := [][2]string{
		{"Account", info.AcctID.String()},
		{"Balance", FormatAmount(info.Balance.InexactFloat64())},
		{"Generated", at.UTC().Format(time.RFC3339)},
	}
	for _, r := range rows {
		pdf.CellFormat(40, 8, r[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(80, 8, r[1], "1", 1, "L", false, 0, "")
	}

	return pdf.Output(w)
}
