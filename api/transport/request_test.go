package transport

import (
	"encoding/json"
	"testing"
)

func TestTaskUpdateRequestDropsProtectedFields(t *testing.T) {
	payload := []byte(`{
		"id": "11111111-1111-1111-1111-111111111111",
		"user_id": "attacker",
		"user": "attacker",
		"created_at": "2020-01-01T00:00:00Z",
		"status": "Completed"
	}`)

	var req TaskUpdateRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Only the mutable fields exist on the type; the protected keys have
	// nowhere to land.
	if req.Status == nil || *req.Status != "Completed" {
		t.Fatalf("expected status to survive, got %+v", req)
	}
	if req.Title != nil || req.Description != nil || req.DueDate != nil {
		t.Fatalf("unexpected fields populated: %+v", req)
	}
}
