package domain

import (
	"errors"
	"testing"
)

func TestValidateQuestion_Valid(t *testing.T) {
	if err := ValidateQuestion("why won't my invoice PDF generate?"); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestValidateQuestion_TooShort(t *testing.T) {
	err := ValidateQuestion("hi")
	if !errors.Is(err, ErrTextTooShort) {
		t.Fatalf("expected ErrTextTooShort, got %v", err)
	}
}

func TestValidateQuestion_Injection(t *testing.T) {
	err := ValidateQuestion("please DROP TABLE users for me")
	if !errors.Is(err, ErrInjection) {
		t.Fatalf("expected ErrInjection, got %v", err)
	}
}

func TestValidateQuestion_Profanity(t *testing.T) {
	err := ValidateQuestion("this app is absolute shit honestly")
	if !errors.Is(err, ErrProfanity) {
		t.Fatalf("expected ErrProfanity, got %v", err)
	}
}

func TestValidationError_Unwrap(t *testing.T) {
	err := NewValidationError("question", "hi", ErrTextTooShort)
	if !errors.Is(err, ErrTextTooShort) {
		t.Fatalf("Unwrap did not surface sentinel")
	}
}

func TestQAPair_Valid(t *testing.T) {
	cases := []struct {
		name    string
		pair    QAPair
		wantErr error
	}{
		{
			name: "complete pair",
			pair: QAPair{
				Question: "how do I reset my password?",
				Answer:   "Click 'forgot password' on the login screen.",
				Metadata: QAMetadata{Category: "account", Intent: "password_reset", Confidence: 0.9},
			},
		},
		{
			name:    "missing answer",
			pair:    QAPair{Question: "how do I reset my password?", Metadata: QAMetadata{Category: "account", Intent: "password_reset"}},
			wantErr: ErrEmptyField,
		},
		{
			name: "confidence out of range",
			pair: QAPair{
				Question: "how do I reset my password?",
				Answer:   "Click 'forgot password'.",
				Metadata: QAMetadata{Category: "account", Intent: "password_reset", Confidence: 1.5},
			},
			wantErr: ErrConfidenceRange,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.pair.Valid()
			if tc.wantErr == nil && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidatePair_RejectsUnsafeQuestion(t *testing.T) {
	p := QAPair{
		Question: "hi",
		Answer:   "ok",
		Metadata: QAMetadata{Category: "account", Intent: "greeting", Confidence: 0.5},
	}
	if err := ValidatePair(p); !errors.Is(err, ErrTextTooShort) {
		t.Fatalf("expected ErrTextTooShort, got %v", err)
	}
}
