package testutils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/brianvoe/gofakeit/v6"
)

// GenerateSampleDocument produces one text document seeded with realistic
// PII of several types, for exercising the detection pipeline by hand.
func GenerateSampleDocument() string {
	person := gofakeit.Person()
	return fmt.Sprintf(
		`Hello, my name is %s %s and I live at %s, %s, %s %s.
You can reach me at %s or call %s.
My card number is %s and my SSN is %s.
Account Number: %d
Employee ID: EMP%d
I was born on %s and work at %s.`,
		person.FirstName,
		person.LastName,
		gofakeit.Street(),
		gofakeit.City(),
		gofakeit.StateAbr(),
		gofakeit.Zip(),
		gofakeit.Email(),
		gofakeit.Phone(),
		gofakeit.CreditCardNumber(nil),
		gofakeit.SSN(),
		gofakeit.Number(10000000, 99999999),
		gofakeit.Number(100000, 999999),
		gofakeit.Date().Format("January 2, 2006"),
		gofakeit.Company(),
	)
}

// GenerateFixtureData writes count sample documents to outputDir.
func GenerateFixtureData(count int, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		path := filepath.Join(outputDir, fmt.Sprintf("document_%03d.txt", i))
		if err := os.WriteFile(path, []byte(GenerateSampleDocument()), 0o644); err != nil {
			return err
		}
	}
	return nil
}
