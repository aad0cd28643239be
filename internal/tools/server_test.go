package tools

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/desertthunder/spotify-mcp/internal/services"
	tu "github.com/desertthunder/spotify-mcp/internal/testing"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	d, err := NewDispatcher(services.NewPlayer(tu.NewMockAPI(), nil))
	if err != nil {
		t.Fatalf("failed to create dispatcher: %v", err)
	}
	return NewServer(d, ServerInfo{Name: "spotify-mcp", Version: "test"}, nil)
}

func TestServeStdio(t *testing.T) {
	in := strings.NewReader(strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized","params":{}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list","params":{}}`,
	}, "\n") + "\n")
	var out bytes.Buffer

	if err := newTestServer(t).ServeStdio(context.Background(), in, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	responses := map[string]string{}
	scanner := bufio.NewScanner(&out)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		var resp struct {
			ID json.RawMessage `json:"id"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			t.Fatalf("every line should be a JSON-RPC message: %v: %s", err, scanner.Text())
		}
		responses[string(resp.ID)] = scanner.Text()
	}

	if init := responses["1"]; !strings.Contains(init, `"spotify-mcp"`) || !strings.Contains(init, `"2024-11-05"`) {
		t.Errorf("unexpected initialize response %q", init)
	}
	for _, name := range []string{ToolPlayback, ToolSearch, ToolQueue, ToolGetInfo, ToolAuth} {
		if !strings.Contains(responses["2"], `"`+name+`"`) {
			t.Errorf("expected %s in tools/list response %q", name, responses["2"])
		}
	}
}

func TestHTTPServer(t *testing.T) {
	e := NewHTTPServer(newTestServer(t), nil)

	t.Run("Streamable Session", func(t *testing.T) {
		srv := httptest.NewServer(e)
		t.Cleanup(srv.Close)

		client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
		cs, err := client.Connect(context.Background(), &mcp.StreamableClientTransport{Endpoint: srv.URL + "/mcp"}, nil)
		if err != nil {
			t.Fatalf("failed to connect: %v", err)
		}
		t.Cleanup(func() { cs.Close() })

		tools, err := cs.ListTools(context.Background(), nil)
		if err != nil {
			t.Fatalf("failed to list tools: %v", err)
		}
		if len(tools.Tools) != 5 {
			t.Errorf("expected 5 tools, got %d", len(tools.Tools))
		}

		r, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
			Name:      ToolQueue,
			Arguments: map[string]any{"action": "get"},
		})
		if err != nil || r.IsError || !strings.Contains(text(r), `"queue"`) {
			t.Errorf("unexpected result %+v %v", r, err)
		}
	})

	t.Run("GET /tools", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tools", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var body struct {
			Tools []toolSummary `json:"tools"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if len(body.Tools) != 5 || body.Tools[3].Name != ToolGetInfo {
			t.Errorf("unexpected tools %+v", body.Tools)
		}
	})

	t.Run("Unknown Route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}
