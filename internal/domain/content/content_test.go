package content_test

import (
	"testing"
	"time"

	"dispatchsite/internal/domain/content"
)

// TestDocument_Validate tests structural invariants of Document.
func TestDocument_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*content.Document)
		wantErr bool
	}{
		{
			name:    "default document valid",
			mutate:  func(d *content.Document) {},
			wantErr: false,
		},
		{
			name:    "too few tops",
			mutate:  func(d *content.Document) { d.Tops = d.Tops[:2] },
			wantErr: true,
		},
		{
			name:    "too many tops",
			mutate:  func(d *content.Document) { d.Tops = append(d.Tops, content.TopEntry{Rank: "Extra"}) },
			wantErr: true,
		},
		{
			name:    "rank out of position",
			mutate:  func(d *content.Document) { d.Tops[0].Rank = content.RankBronze },
			wantErr: true,
		},
		{
			name:    "empty rank",
			mutate:  func(d *content.Document) { d.Tops[1].Rank = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := content.DefaultDocument(time.Now())
			tt.mutate(&doc)
			err := doc.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestValidateTopIndex tests the fixed leaderboard slot bounds.
func TestValidateTopIndex(t *testing.T) {
	for _, idx := range []int{0, 1, 2} {
		if err := content.ValidateTopIndex(idx); err != nil {
			t.Errorf("index %d should be valid: %v", idx, err)
		}
	}
	for _, idx := range []int{-1, 3, 99} {
		if err := content.ValidateTopIndex(idx); err != content.ErrInvalidIndex {
			t.Errorf("index %d: error = %v, want ErrInvalidIndex", idx, err)
		}
	}
}

// TestDocument_SetTopImage tests image assignment and rank re-pinning.
func TestDocument_SetTopImage(t *testing.T) {
	doc := content.DefaultDocument(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	doc.Tops[1].Rank = "garbage" // simulate a drifted rank

	now := time.Now()
	if err := doc.SetTopImage(1, "/uploads/x.jpg", now); err != nil {
		t.Fatalf("SetTopImage failed: %v", err)
	}
	if doc.Tops[1].Image != "/uploads/x.jpg" {
		t.Errorf("image = %q", doc.Tops[1].Image)
	}
	if doc.Tops[1].Rank != content.RankSilver {
		t.Errorf("rank = %q, want %q", doc.Tops[1].Rank, content.RankSilver)
	}
	if !doc.UpdatedAt.Equal(now) {
		t.Error("UpdatedAt should be refreshed")
	}

	if err := doc.SetTopImage(3, "/uploads/y.jpg", now); err != content.ErrInvalidIndex {
		t.Errorf("out-of-range index: error = %v, want ErrInvalidIndex", err)
	}
}
