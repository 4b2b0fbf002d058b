package exports

import (
	"encoding/csv"
	"io"
	"strconv"

	"prospector_backend/internal/leads/domain"
)

// utf8BOM makes spreadsheet tools detect the encoding correctly.
const utf8BOM = "\ufeff"

func csvHeaders() []string {
	return []string{"Company", "Score", "Email", "Status"}
}

func leadRow(lead domain.Lead) []string {
	score := ""
	if lead.QualificationScore != nil {
		score = strconv.Itoa(*lead.QualificationScore)
	}
	email := ""
	if lead.Email != nil {
		email = *lead.Email
	}
	return []string{lead.CompanyName, score, email, string(lead.Status)}
}

// WriteCSV renders the collection as a BOM-prefixed CSV document.
func WriteCSV(w io.Writer, leads []domain.Lead) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeaders()); err != nil {
		return err
	}
	for _, lead := range leads {
		if err := writer.Write(leadRow(lead)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
