package sentiment

import "testing"

func TestAssessPositiveFeedback(t *testing.T) {
	decision := Assess("Thank you, that was really helpful")
	if decision.Signal != Positive {
		t.Fatalf("expected positive signal, got %s", decision.Signal)
	}
	if decision.Score < 3 {
		t.Fatalf("expected keyword score, got %d", decision.Score)
	}
}

func TestAssessNegativeFeedback(t *testing.T) {
	decision := Assess("That analysis is wrong and not helpful")
	if decision.Signal != Negative {
		t.Fatalf("expected negative signal, got %s", decision.Signal)
	}
}

func TestAssessNeutralUtterance(t *testing.T) {
	decision := Assess("What is the current ledger state?")
	if decision.Signal != Neutral {
		t.Fatalf("expected neutral signal, got %s", decision.Signal)
	}
}

func TestSuccessfulFeedbackKeywords(t *testing.T) {
	for _, utterance := range []string{"yes", "correct", "good", "thanks", "helpful answer"} {
		if !Successful(utterance) {
			t.Fatalf("expected %q to count as successful", utterance)
		}
	}
	if Successful("") {
		t.Fatal("empty utterance must not count as successful")
	}
}

func TestSuccessfulIgnoresNegativeWording(t *testing.T) {
	// A fixed indicator counts even when the utterance also complains.
	if !Successful("thanks, but that analysis is wrong and failed") {
		t.Fatal("expected 'thank' to count as successful despite negative wording")
	}
}

func TestSuccessfulRequiresFixedIndicator(t *testing.T) {
	// Praise outside the fixed indicator set does not count.
	for _, utterance := range []string{"great, brilliant work", "perfect, exactly right"} {
		if Successful(utterance) {
			t.Fatalf("expected %q not to count as successful", utterance)
		}
	}
}
