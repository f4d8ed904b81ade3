package entities_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/archis17/AI-KYC/internal/stage"
	"github.com/archis17/AI-KYC/internal/stage/entities"
)

func newExtractor() *entities.Extractor {
	return entities.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestExtractEntities(t *testing.T) {
	tests := []struct {
		name string
		text string
		want stage.EntitySet
	}{
		{
			name: "labeled fields",
			text: "Name: Jane Doe\nDOB: 01/02/1990\nID#: AB123456\nAddress: 123 Main Street, Springfield",
			want: stage.EntitySet{
				Name:     "Jane Doe",
				DOB:      "01/02/1990",
				Address:  "123 Main Street, Springfield",
				IDNumber: "AB123456",
			},
		},
		{
			name: "unlabeled fallbacks",
			text: "Jane Doe resides at 456 Oak Avenue since 12-05-1988 ref C7712345",
			want: stage.EntitySet{
				Name:     "Jane Doe",
				DOB:      "12-05-1988",
				Address:  "456 Oak Avenue",
				IDNumber: "C7712345",
			},
		},
		{
			name: "ssn fallback",
			text: "DOB: 01/02/1990 SSN 123-45-6789",
			want: stage.EntitySet{
				DOB:      "01/02/1990",
				IDNumber: "123-45-6789",
			},
		},
		{
			name: "uppercase prose does not read as a name",
			text: "NAME: JOHN SMITH",
			want: stage.EntitySet{},
		},
		{
			name: "plain prose yields nothing",
			text: "the quick brown fox jumps over the lazy dog",
			want: stage.EntitySet{},
		},
	}

	e := newExtractor()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.ExtractEntities(context.Background(), tc.text)
			if err != nil {
				t.Fatalf("extract: %v", err)
			}
			if *got != tc.want {
				t.Errorf("entities = %+v, want %+v", *got, tc.want)
			}
		})
	}
}

func TestExtractEntitiesEmptyText(t *testing.T) {
	e := newExtractor()

	for _, text := range []string{"", "   \n\t  "} {
		got, err := e.ExtractEntities(context.Background(), text)
		if err != nil {
			t.Fatalf("extract: %v", err)
		}
		if got == nil {
			t.Fatal("set = nil, want empty set")
		}
		if *got != (stage.EntitySet{}) {
			t.Errorf("entities = %+v, want empty set", *got)
		}
	}
}

func TestExtractEntitiesLabeledWinsOverFallback(t *testing.T) {
	e := newExtractor()

	got, err := e.ExtractEntities(context.Background(), "Dear John Smith\nFull Name: Jane Doe")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got.Name != "Jane Doe" {
		t.Errorf("name = %q, want labeled value Jane Doe", got.Name)
	}
}
