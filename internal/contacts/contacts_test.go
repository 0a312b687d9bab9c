package contacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve_CaseInsensitive(t *testing.T) {
	d, err := New([]Contact{
		{Name: "Mum", Address: "+15550100"},
		{Name: "dad", Address: "+15550101"},
	})
	require.NoError(t, err)

	a1, err := d.Resolve("Mum")
	require.NoError(t, err)
	a2, err := d.Resolve("mum")
	require.NoError(t, err)
	a3, err := d.Resolve("  MUM ")
	require.NoError(t, err)

	require.Equal(t, "+15550100", a1)
	require.Equal(t, a1, a2)
	require.Equal(t, a1, a3)
}

func TestResolve_NotFound(t *testing.T) {
	d, err := New([]Contact{{Name: "naina", Address: "+15550102"}})
	require.NoError(t, err)

	_, err = d.Resolve("nain")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = d.Resolve("naina please")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = d.Resolve("")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNew_RejectsBadEntries(t *testing.T) {
	_, err := New([]Contact{{Name: "mum", Address: "1"}, {Name: "MUM", Address: "2"}})
	require.ErrorContains(t, err, "duplicate")

	_, err = New([]Contact{{Name: " ", Address: "1"}})
	require.ErrorContains(t, err, "empty name")

	_, err = New([]Contact{{Name: "dad", Address: ""}})
	require.ErrorContains(t, err, "empty address")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
contacts:
  - name: Pranshu
    address: "+15550103"
  - name: mum
    address: "+15550100"
`), 0o600))

	d, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())

	addr, err := d.Resolve("pranshu")
	require.NoError(t, err)
	require.Equal(t, "+15550103", addr)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("contacts: [oops"), 0o600))
	_, err = Load(path)
	require.ErrorContains(t, err, "parse contacts")
}
