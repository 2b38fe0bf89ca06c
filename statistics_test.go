package noisynet

import (
	"encoding/csv"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatistics_Dump(t *testing.T) {
	s := makeStatistics()
	s.update("sig-sm", 0.5)
	s.update("sig-or-sm", 0.4)
	s.update("sig-sm", 0.25)

	dir, err := ioutil.TempDir("", "noisynet")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	filename := filepath.Join(dir, "stats.csv")
	require.NoError(t, s.Dump(filename))

	f, err := os.Open(filename)
	require.NoError(t, err)
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"sig-sm", "sig-or-sm"},
		{"0.5000", "0.4000"},
		{"0.2500", ""},
	}, records)
}
