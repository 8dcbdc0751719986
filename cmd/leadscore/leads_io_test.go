package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadLeads_Array(t *testing.T) {
	path := writeTempFile(t, "leads.json", `[{"name": "Luigi's Trattoria"}, {"name": "Crumb & Co", "review_count": 3}]`)

	leads, err := loadLeads(path)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "Luigi's Trattoria", leads[0].Name)
	assert.Equal(t, 3, *leads[1].ReviewCount)
}

func TestLoadLeads_Wrapped(t *testing.T) {
	path := writeTempFile(t, "ranked.json", `{"leads": [{"name": "Petal Works", "website": "https://petal.example"}], "count": 1}`)

	leads, err := loadLeads(path)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "https://petal.example", leads[0].Website)
}

func TestLoadLeads_CSV(t *testing.T) {
	path := writeTempFile(t, "leads.CSV", "Business Name,Review Count,Mobile Friendly\nCrumb & Co,3,No\n")

	leads, err := loadLeads(path)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Crumb & Co", leads[0].Name)
	assert.Equal(t, 3, *leads[0].ReviewCount)
	assert.False(t, leads[0].Audit.IsMobileFriendly())
}

func TestLoadLeads_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") },
			wantErr: "failed to read leads file",
		},
		{
			name:    "empty file",
			path:    func(t *testing.T) string { return writeTempFile(t, "empty.json", "  \n") },
			wantErr: "is empty",
		},
		{
			name:    "malformed array",
			path:    func(t *testing.T) string { return writeTempFile(t, "bad.json", `[{"name": }]`) },
			wantErr: "failed to parse leads JSON",
		},
		{
			name:    "malformed object",
			path:    func(t *testing.T) string { return writeTempFile(t, "bad.json", `{"leads": 3}`) },
			wantErr: "failed to parse leads JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadLeads(tt.path(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadIdentifiers(t *testing.T) {
	path := writeTempFile(t, "known.txt", "# exported 2026-03-01\nhttps://petal.example\n\n  https://maps.example/crumb  \n")

	identifiers, err := loadIdentifiers(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://petal.example", "https://maps.example/crumb"}, identifiers)

	identifiers, err = loadIdentifiers("")
	require.NoError(t, err)
	assert.Nil(t, identifiers)

	_, err = loadIdentifiers(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestWriteOutput_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "leads.csv")

	require.NoError(t, writeOutput(path, []byte("a,b\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))
}
