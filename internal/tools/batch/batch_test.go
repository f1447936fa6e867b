package batch

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStringOrArray(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		paramName string
		want      []string
		wantErr   bool
	}{
		{
			name:      "single message ID",
			input:     "198a4f2c3d1e5b6a",
			paramName: "message_ids",
			want:      []string{"198a4f2c3d1e5b6a"},
			wantErr:   false,
		},
		{
			name:      "array of message IDs",
			input:     []interface{}{"msg1", "msg2", "msg3"},
			paramName: "message_ids",
			want:      []string{"msg1", "msg2", "msg3"},
			wantErr:   false,
		},
		{
			name:      "nil input",
			input:     nil,
			paramName: "message_ids",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "empty string",
			input:     "",
			paramName: "message_ids",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "empty array",
			input:     []interface{}{},
			paramName: "message_ids",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "array with non-string",
			input:     []interface{}{"msg1", 123, "msg3"},
			paramName: "message_ids",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "array with empty string",
			input:     []interface{}{"msg1", "", "msg3"},
			paramName: "message_ids",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "invalid type",
			input:     123,
			paramName: "message_ids",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "JSON string array",
			input:     `["msg1", "msg2", "msg3"]`,
			paramName: "message_ids",
			want:      []string{"msg1", "msg2", "msg3"},
			wantErr:   false,
		},
		{
			name:      "JSON string array of Drive file IDs",
			input:     `["1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms", "1A2B3C"]`,
			paramName: "file_ids",
			want:      []string{"1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms", "1A2B3C"},
			wantErr:   false,
		},
		{
			name:      "JSON string single element array",
			input:     `["msg1"]`,
			paramName: "message_ids",
			want:      []string{"msg1"},
			wantErr:   false,
		},
		{
			name:      "JSON string empty array",
			input:     `[]`,
			paramName: "message_ids",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "JSON string array with empty element",
			input:     `["msg1", ""]`,
			paramName: "message_ids",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "invalid JSON string treated as plain ID",
			input:     `[invalid json`,
			paramName: "message_ids",
			want:      []string{`[invalid json`},
			wantErr:   false,
		},
		{
			name:      "string starting with bracket but not JSON",
			input:     `[Draft] quarterly report`,
			paramName: "file_ids",
			want:      []string{`[Draft] quarterly report`},
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringOrArray(tt.input, tt.paramName)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStringOrArray() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFormatResults(t *testing.T) {
	results := []Result{
		{ID: "msg1", Status: StatusSuccess, Result: "Labels now: INBOX"},
		{ID: "msg2", Status: StatusSuccess, Result: "Labels now: INBOX"},
		{ID: "msg3", Status: StatusError, Error: "message not found"},
	}

	output := FormatResults(results)

	var br BatchResult
	if err := json.Unmarshal([]byte(output), &br); err != nil {
		t.Fatalf("failed to parse output JSON: %v", err)
	}

	if br.Total != 3 {
		t.Errorf("Total = %d, want 3", br.Total)
	}
	if br.Successful != 2 {
		t.Errorf("Successful = %d, want 2", br.Successful)
	}
	if br.Failed != 1 {
		t.Errorf("Failed = %d, want 1", br.Failed)
	}
	if len(br.Results) != 3 {
		t.Errorf("len(Results) = %d, want 3", len(br.Results))
	}
}

func TestProcessBatch(t *testing.T) {
	ids := []string{"msg1", "msg2", "msg3"}

	fn := func(id string) (string, error) {
		if id == "msg2" {
			return "", errors.New("message not found")
		}
		return "modified " + id, nil
	}

	results := ProcessBatch(ids, fn)

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}

	if results[0].Status != StatusSuccess {
		t.Errorf("results[0].Status = %s, want %s", results[0].Status, StatusSuccess)
	}
	if results[0].Result != "modified msg1" {
		t.Errorf("results[0].Result = %s, want 'modified msg1'", results[0].Result)
	}

	if results[1].Status != StatusError {
		t.Errorf("results[1].Status = %s, want %s", results[1].Status, StatusError)
	}
	if results[1].Error != "message not found" {
		t.Errorf("results[1].Error = %s, want 'message not found'", results[1].Error)
	}

	if results[2].Status != StatusSuccess {
		t.Errorf("results[2].Status = %s, want %s", results[2].Status, StatusSuccess)
	}
	if results[2].Result != "modified msg3" {
		t.Errorf("results[2].Result = %s, want 'modified msg3'", results[2].Result)
	}
}

func TestNewSuccessResult(t *testing.T) {
	result := NewSuccessResult("msg1", "Labels now: INBOX")

	if result.ID != "msg1" {
		t.Errorf("ID = %s, want msg1", result.ID)
	}
	if result.Status != StatusSuccess {
		t.Errorf("Status = %s, want %s", result.Status, StatusSuccess)
	}
	if result.Result != "Labels now: INBOX" {
		t.Errorf("Result = %s, want 'Labels now: INBOX'", result.Result)
	}
	if result.Error != "" {
		t.Errorf("Error should be empty, got %s", result.Error)
	}
}

func TestNewErrorResult(t *testing.T) {
	err := errors.New("message not found")
	result := NewErrorResult("msg1", err)

	if result.ID != "msg1" {
		t.Errorf("ID = %s, want msg1", result.ID)
	}
	if result.Status != StatusError {
		t.Errorf("Status = %s, want %s", result.Status, StatusError)
	}
	if result.Error != "message not found" {
		t.Errorf("Error = %s, want 'message not found'", result.Error)
	}
	if result.Result != "" {
		t.Errorf("Result should be empty, got %s", result.Result)
	}
}
