package orders

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	puts    map[string][]byte
	types   map[string]string
	url     string
	signErr error
	putErr  error
	expires time.Time
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{puts: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjects) Put(_ context.Context, object, contentType string, data []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts[object] = data
	f.types[object] = contentType
	return nil
}

func (f *fakeObjects) SignedGetURL(_ context.Context, object string, expires time.Time) (string, error) {
	f.expires = expires
	if f.signErr != nil {
		return "", f.signErr
	}
	if f.url == "" {
		return "", nil
	}
	return f.url + "/" + object, nil
}

func exportService() *Service {
	store := newFakeStore()
	store.list = []OrdersDoc{{UserID: "u1", Orders: []Order{{OrderID: "o1", Price: 12}}}}
	names := &fakeNames{names: map[string]string{"u1": "Minji"}}
	return NewService(store, names, Options{Now: func() time.Time { return fixedNow }})
}

func TestExporter_Export(t *testing.T) {
	objects := newFakeObjects()
	objects.url = "https://storage.example"
	ex := NewExporter(exportService(), objects, "taobaoOrders", 10*time.Minute)

	res, err := ex.Export(signedIn("staff-1", nil), "u1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Object, "exports/taobaoOrders/u1/20240501T030000Z-"), res.Object)
	assert.True(t, strings.HasSuffix(res.Object, ".json"))
	assert.Equal(t, "https://storage.example/"+res.Object, res.URL)
	assert.Equal(t, fixedNow.Add(10*time.Minute), res.ExpiresAt)
	assert.Equal(t, 1, res.Orders)
	assert.Equal(t, "application/json", objects.types[res.Object])

	var file exportFile
	require.NoError(t, json.Unmarshal(objects.puts[res.Object], &file))
	assert.Equal(t, "u1", file.UserID)
	assert.Equal(t, "Minji", file.UserDisplayName)
	assert.Equal(t, "staff-1", file.ExportedBy)
	assert.True(t, fixedNow.Equal(file.ExportedAt))
	require.Len(t, file.Orders, 1)
	assert.Equal(t, "o1", file.Orders[0].OrderID)
}

func TestExporter_WithoutSigning(t *testing.T) {
	objects := newFakeObjects()
	ex := NewExporter(exportService(), objects, "taobaoOrders", 0)

	res, err := ex.Export(signedIn("staff-1", nil), "u1")
	require.NoError(t, err)
	assert.Empty(t, res.URL)
	assert.True(t, res.ExpiresAt.IsZero())
	assert.Contains(t, objects.puts, res.Object)
}

func TestExporter_Errors(t *testing.T) {
	var disabled *Exporter
	_, err := disabled.Export(signedIn("x", nil), "u1")
	assert.ErrorIs(t, err, ErrExportDisabled)

	ex := NewExporter(exportService(), newFakeObjects(), "taobaoOrders", 0)

	_, err = ex.Export(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = ex.Export(signedIn("x", nil), "")
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = ex.Export(signedIn("x", nil), "nobody")
	assert.ErrorIs(t, err, ErrDocNotFound)

	failing := newFakeObjects()
	failing.putErr = errors.New("bucket gone")
	_, err = NewExporter(exportService(), failing, "taobaoOrders", 0).Export(signedIn("x", nil), "u1")
	assert.ErrorContains(t, err, "store export")

	unsigned := newFakeObjects()
	unsigned.signErr = errors.New("iam denied")
	_, err = NewExporter(exportService(), unsigned, "taobaoOrders", 0).Export(signedIn("x", nil), "u1")
	assert.ErrorContains(t, err, "sign export url")
}
