package server

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ironsheep/shapescan/internal/config"
)

func TestNew(t *testing.T) {
	s := New(nil, "test")
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cache == nil {
		t.Fatal("New() did not initialize cache")
	}
	if s.cfg == nil {
		t.Fatal("New(nil) should fall back to the default config")
	}
	if s.debug {
		t.Error("default config should not enable debug logging")
	}
}

func TestNew_DebugFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "debug"
	if s := New(cfg, "test"); !s.debug {
		t.Error("log_level=debug should enable debug logging")
	}
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{
			"string id",
			`{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`,
			"test-1",
			"tools/list",
		},
		{
			"number id",
			`{"jsonrpc":"2.0","id":42,"method":"ping"}`,
			float64(42), // JSON numbers decode as float64
			"ping",
		},
		{
			"null id",
			`{"jsonrpc":"2.0","id":null,"method":"initialize"}`,
			nil,
			"initialize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			if err := json.Unmarshal([]byte(tt.json), &req); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}

			if req.ID != tt.wantID {
				t.Errorf("ID: got %v (%T), want %v (%T)", req.ID, req.ID, tt.wantID, tt.wantID)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("Method: got %s, want %s", req.Method, tt.wantMethod)
			}
			if req.JSONRPC != "2.0" {
				t.Errorf("JSONRPC: got %s, want 2.0", req.JSONRPC)
			}
		})
	}
}

func TestMCPResponse_OmitsEmptyFields(t *testing.T) {
	b, err := json.Marshal(&MCPResponse{JSONRPC: "2.0", ID: 1, Result: map[string]interface{}{}})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), `"error"`) {
		t.Errorf("success response should omit error: %s", b)
	}

	b, err = json.Marshal(&MCPResponse{JSONRPC: "2.0", ID: 1, Error: &MCPError{Code: -32601, Message: "x"}})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), `"result"`) {
		t.Errorf("error response should omit result: %s", b)
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := New(nil, "1.2.3")
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})

	if resp == nil || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("Result type: got %T", resp.Result)
	}
	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}
	info := result["serverInfo"].(map[string]interface{})
	if info["name"] != "shapescan" {
		t.Errorf("serverInfo.name: got %v", info["name"])
	}
	if info["version"] != "1.2.3" {
		t.Errorf("serverInfo.version: got %v", info["version"])
	}
}

func TestHandleRequest_Routing(t *testing.T) {
	s := New(nil, "test")

	tests := []struct {
		method    string
		wantNil   bool
		wantError int
	}{
		{"ping", false, 0},
		{"tools/list", false, 0},
		{"notifications/initialized", true, 0},
		{"resources/list", false, -32601},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 7, Method: tt.method})
			if tt.wantNil {
				if resp != nil {
					t.Errorf("expected no response, got %+v", resp)
				}
				return
			}
			if resp == nil {
				t.Fatal("handleRequest returned nil")
			}
			if resp.ID != 7 {
				t.Errorf("ID: got %v, want 7", resp.ID)
			}
			if tt.wantError == 0 && resp.Error != nil {
				t.Errorf("unexpected error: %+v", resp.Error)
			}
			if tt.wantError != 0 && (resp.Error == nil || resp.Error.Code != tt.wantError) {
				t.Errorf("Error: got %+v, want code %d", resp.Error, tt.wantError)
			}
		})
	}
}

func TestServe(t *testing.T) {
	s := New(nil, "test")

	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`not json`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
		`{"jsonrpc":"2.0","id":3,"method":"bogus"}`,
	}, "\n")

	var out bytes.Buffer
	if err := s.Serve(strings.NewReader(in), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d responses, want 3:\n%s", len(lines), out.String())
	}

	wantIDs := []float64{1, 2, 3}
	for i, line := range lines {
		var resp MCPResponse
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("response %d not JSON: %v", i, err)
		}
		if resp.ID != wantIDs[i] {
			t.Errorf("response %d ID: got %v, want %v", i, resp.ID, wantIDs[i])
		}
	}

	var last MCPResponse
	json.Unmarshal([]byte(lines[2]), &last)
	if last.Error == nil || last.Error.Code != -32601 {
		t.Errorf("unknown method: got %+v", last.Error)
	}
}
