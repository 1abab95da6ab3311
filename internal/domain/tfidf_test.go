package domain

import "testing"

var corpus = []string{
	"wireless bluetooth headphones with noise cancellation",
	"wired gaming headset with microphone",
	"stainless steel kitchen knife set",
	"ceramic coffee mug large",
	"bluetooth portable speaker waterproof",
}

func TestTFIDFFitRequiresCorpus(t *testing.T) {
	model := NewTFIDF(100)

	if _, err := model.Fit([]string{"only one document"}); err == nil {
		t.Error("expected error fitting on a single document")
	}
	if model.Fitted() {
		t.Error("model should not be fitted after a failed Fit")
	}
}

func TestTFIDFQueryRanksRelevantDocumentHigher(t *testing.T) {
	model := NewTFIDF(1000)
	vectors, err := model.Fit(corpus)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if len(vectors) != len(corpus) {
		t.Fatalf("expected %d vectors, got %d", len(corpus), len(vectors))
	}

	query := model.Transform("bluetooth headphones")

	simHeadphones := Cosine(query, vectors[0])
	simKnife := Cosine(query, vectors[2])

	if simHeadphones <= 0 {
		t.Errorf("expected positive similarity for relevant document, got %f", simHeadphones)
	}
	if simKnife != 0 {
		t.Errorf("expected zero similarity for unrelated document, got %f", simKnife)
	}
	if simHeadphones <= simKnife {
		t.Error("relevant document must outscore unrelated document")
	}
}

func TestTFIDFBigramsContribute(t *testing.T) {
	model := NewTFIDF(1000)
	vectors, err := model.Fit(corpus)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	// "bluetooth speaker" shares the unigram "bluetooth" with doc 0 and
	// both unigrams plus proximity with doc 4.
	query := model.Transform("portable speaker")

	if got := Cosine(query, vectors[4]); got <= Cosine(query, vectors[0]) {
		t.Errorf("expected speaker document to outscore headphones document, got %f", got)
	}
}

func TestTFIDFVocabularyCap(t *testing.T) {
	model := NewTFIDF(3)
	if _, err := model.Fit(corpus); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if len(model.vocab) > 3 {
		t.Errorf("vocabulary exceeds cap: %d", len(model.vocab))
	}
}

func TestTokenizeDropsStopWordsAndShortTokens(t *testing.T) {
	terms := Tokenize("The quick fox is on a hill")

	for _, term := range terms {
		switch term {
		case "the", "is", "on", "a":
			t.Errorf("stop-word or short token survived tokenization: %q", term)
		}
	}

	// Bigrams are built over the filtered stream.
	found := false
	for _, term := range terms {
		if term == "quick fox" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected bigram \"quick fox\" in %v", terms)
	}
}

func TestCosineOfUnrelatedVectorsIsZero(t *testing.T) {
	a := Vector{0: 1.0}
	b := Vector{1: 1.0}

	if got := Cosine(a, b); got != 0 {
		t.Errorf("expected 0, got %f", got)
	}
}
