package listview

import (
	"fmt"
	"time"

	"github.com/psycho-70/Eservice-frontend/internal/models"
)

var baseTime = time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)

// makeRecords builds n records with reference numbers REF-001..REF-n,
// created one hour apart in ascending order.
func makeRecords(n int) []models.VerificationRecord {
	recs := make([]models.VerificationRecord, n)
	for i := range recs {
		recs[i] = models.VerificationRecord{
			ID:              fmt.Sprintf("id-%03d", i+1),
			ReferenceNumber: fmt.Sprintf("REF-%03d", i+1),
			PassportNumber:  fmt.Sprintf("P%05d", (n-i)*7),
			Facility700:     fmt.Sprintf("700%07d", i%3),
			CreatedAt:       baseTime.Add(time.Duration(i) * time.Hour),
		}
	}
	return recs
}

func ids(recs []models.VerificationRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}
