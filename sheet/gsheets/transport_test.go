package gsheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridkit/gridkit/sheet"
)

func testTransport(t *testing.T, handler http.HandlerFunc) *Transport {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestBatchGet(t *testing.T) {
	tr := testTransport(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/my-sheet/values:batchGet", r.URL.Path)
		assert.Equal(t, "'Data'!A1:ZZ", r.URL.Query().Get("ranges"))
		w.Write([]byte(`{"valueRanges": [{"values": [["Name", "Age"], ["Alice", 30, true]]}]}`))
	})

	rows, err := tr.BatchGet(context.Background(), "my-sheet", "'Data'!A1:ZZ")
	require.NoError(t, err)
	// Non-string cell values come back stringified.
	assert.Equal(t, [][]string{{"Name", "Age"}, {"Alice", "30", "true"}}, rows)
}

func TestBatchGetEmpty(t *testing.T) {
	tr := testTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"valueRanges": []}`))
	})

	rows, err := tr.BatchGet(context.Background(), "my-sheet", "'Data'!A1:ZZ")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestBatchUpdate(t *testing.T) {
	var got map[string]any
	tr := testTransport(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/my-sheet/values:batchUpdate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{}`))
	})

	err := tr.BatchUpdate(context.Background(), "my-sheet", []sheet.ValueWrite{
		{Range: "'Data'!B2", Values: [][]string{{"31"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "RAW", got["valueInputOption"])
	data := got["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "'Data'!B2", data[0].(map[string]any)["range"])
}

func TestMetadata(t *testing.T) {
	tr := testTransport(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/my-sheet", r.URL.Path)
		assert.Equal(t, "sheets.properties", r.URL.Query().Get("fields"))
		w.Write([]byte(`{"sheets": [
			{"properties": {"sheetId": 0, "title": "Data", "index": 0}},
			{"properties": {"sheetId": 123, "title": "Archive", "index": 1}}
		]}`))
	})

	infos, err := tr.Metadata(context.Background(), "my-sheet")
	require.NoError(t, err)
	assert.Equal(t, []sheet.TableInfo{
		{ID: 0, Name: "Data", Index: 0},
		{ID: 123, Name: "Archive", Index: 1},
	}, infos)
}

func TestCopyTable(t *testing.T) {
	tr := testTransport(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/my-sheet/sheets/123:copyTo", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "other-sheet", body["destinationSpreadsheetId"])
		w.Write([]byte(`{"sheetId": 456, "title": "Copy of Data", "index": 2}`))
	})

	info, err := tr.CopyTable(context.Background(), "my-sheet", 123, "other-sheet")
	require.NoError(t, err)
	assert.Equal(t, sheet.TableInfo{ID: 456, Name: "Copy of Data", Index: 2}, info)
}

func TestRenameTable(t *testing.T) {
	var got map[string]any
	tr := testTransport(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/my-sheet:batchUpdate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{}`))
	})

	require.NoError(t, tr.RenameTable(context.Background(), "my-sheet", 123, "Archive"))
	reqs := got["requests"].([]any)
	require.Len(t, reqs, 1)
	update := reqs[0].(map[string]any)["updateSheetProperties"].(map[string]any)
	assert.Equal(t, "title", update["fields"])
	props := update["properties"].(map[string]any)
	assert.Equal(t, float64(123), props["sheetId"])
	assert.Equal(t, "Archive", props["title"])
}

func TestStatusErrorDecoding(t *testing.T) {
	tr := testTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"code": 403, "message": "The caller does not have permission", "status": "PERMISSION_DENIED"}}`))
	})

	_, err := tr.BatchGet(context.Background(), "my-sheet", "A1:ZZ")
	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 403, se.Code)
	assert.Equal(t, "PERMISSION_DENIED", se.Status)
	assert.NotErrorIs(t, err, sheet.ErrTimeout)
}

func TestTimeoutStatusMapsToErrTimeout(t *testing.T) {
	tr := testTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
		w.Write([]byte(`{"error": {"code": 504, "message": "deadline", "status": "DEADLINE_EXCEEDED"}}`))
	})

	_, err := tr.BatchGet(context.Background(), "my-sheet", "A1:ZZ")
	require.Error(t, err)
	assert.ErrorIs(t, err, sheet.ErrTimeout)
}

func TestContextCancellation(t *testing.T) {
	tr := testTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tr.BatchGet(ctx, "my-sheet", "A1:ZZ")
	assert.Error(t, err)
}
