package transport

import (
	"encoding/json"
	"testing"

	"github.com/taskforge/backend/domain"
)

func TestTaskListEmptySerializesAsArray(t *testing.T) {
	tasks := []domain.Task{}

	out, err := json.Marshal(TaskList{Count: len(tasks), Data: tasks})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"count":0,"data":[]}` {
		t.Fatalf("empty list serialized as %s", out)
	}
}
