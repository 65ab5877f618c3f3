package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_PresentationOrder(t *testing.T) {
	ids := make([]string, 0)
	for _, p := range List() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"google-drive", "dropbox", "mega", "onedrive", "pcloud"}, ids)
}

func TestList_ReturnsCopy(t *testing.T) {
	first := List()
	first[0].QuotaBytes = 1

	again := List()
	assert.Equal(t, 15*GiB, again[0].QuotaBytes)
}

func TestLookup(t *testing.T) {
	p, ok := Lookup("dropbox")
	require.True(t, ok)
	assert.Equal(t, "Dropbox", p.DisplayName)
	assert.Equal(t, 2*GiB, p.QuotaBytes)

	_, ok = Lookup("box")
	assert.False(t, ok)
}
