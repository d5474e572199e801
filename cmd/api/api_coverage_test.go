package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/WessleyAI/wessley-support-rag/ingest/classify"
	"github.com/WessleyAI/wessley-support-rag/ingest/registry"
	"github.com/WessleyAI/wessley-support-rag/ingest/staging"
)

func TestHandleCreateAndListSubscriptions(t *testing.T) {
	rel := newFakeRelStore()
	logger := testLogger()

	body := `{"url":"https://example.com/hook","secret":"shh","event_type":"document.ingested"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/subscriptions", bytes.NewBufferString(body))
	handleCreateSubscription(rel, logger)(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/webhooks/subscriptions?event_type=document.ingested", nil)
	handleListSubscriptions(rel, logger)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var subs []struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&subs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(subs) != 1 || subs[0].URL != "https://example.com/hook" {
		t.Fatalf("expected one matching subscription, got %+v", subs)
	}
}

func TestHandleCreateSubscription_RejectsMissingFields(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/subscriptions", bytes.NewBufferString(`{"url":""}`))
	handleCreateSubscription(newFakeRelStore(), testLogger())(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleUpload_ParsesClassifiesAndCreatesDraft(t *testing.T) {
	classifier := classify.NewClassifier(fakeModelClient{}, nil, registry.NewHolder())
	drafts := staging.NewStore(newFakeKVStore(), 0)

	body := `{"filename":"faq.csv","format":"csv","content":"question,answer\nHow do I reset my password?,Use the forgot-password link.\n"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest/upload", bytes.NewBufferString(body))
	handleUpload(classifier, drafts, testLogger())(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var draft struct {
		ID     string `json:"id"`
		Chunks []struct {
			Pair struct {
				Question string `json:"question"`
			} `json:"pair"`
		} `json:"chunks"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&draft); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if draft.ID == "" {
		t.Fatal("expected a non-empty draft id")
	}
	if len(draft.Chunks) != 1 || draft.Chunks[0].Pair.Question != "How do I reset my password?" {
		t.Fatalf("unexpected chunks: %+v", draft.Chunks)
	}
}

func TestDraftLifecycle_GetAndDiscard(t *testing.T) {
	classifier := classify.NewClassifier(fakeModelClient{}, nil, registry.NewHolder())
	drafts := staging.NewStore(newFakeKVStore(), 0)
	logger := testLogger()

	body := `{"filename":"faq.csv","format":"csv","content":"question,answer\nWhy was I charged twice?,We refund duplicate charges automatically.\n"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest/upload", bytes.NewBufferString(body))
	handleUpload(classifier, drafts, logger)(rec, req)
	var created struct {
		ID string `json:"id"`
	}
	json.NewDecoder(rec.Body).Decode(&created)

	r := chi.NewRouter()
	r.Get("/drafts/{id}", handleGetDraft(drafts, logger))
	r.Patch("/drafts/{id}", handlePatchDraft(drafts, logger))
	r.Delete("/drafts/{id}", handleDiscardDraft(drafts, logger))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/drafts/"+created.ID, nil)
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on get, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/drafts/"+created.ID, nil)
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on discard, got %d", rec.Code)
	}
}

func TestHandleGetDraft_NotFound(t *testing.T) {
	drafts := staging.NewStore(newFakeKVStore(), 0)
	r := chi.NewRouter()
	r.Get("/drafts/{id}", handleGetDraft(drafts, testLogger()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/drafts/does-not-exist", nil)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
