package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobRequestNormalize_DedupesPreservingOrder(t *testing.T) {
	r := &JobRequest{
		Keywords:   []string{" standing desk ", "ergonomic chair", "Standing Desk", "", "desk mat"},
		PerKeyword: 10,
	}
	require.NoError(t, r.Normalize())
	assert.Equal(t, []string{"standing desk", "ergonomic chair", "desk mat"}, r.Keywords)
}

func TestJobRequestNormalize_RejectsEmptyKeywords(t *testing.T) {
	r := &JobRequest{Keywords: []string{"  ", ""}, PerKeyword: 10}
	err := r.Normalize()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputInvalid)
}

func TestJobRequestNormalize_RejectsBadPerKeyword(t *testing.T) {
	r := &JobRequest{Keywords: []string{"desk"}, PerKeyword: 0}
	assert.ErrorIs(t, r.Normalize(), ErrInputInvalid)
}

func TestJobRequestNormalize_RejectsKOfOne(t *testing.T) {
	r := &JobRequest{Keywords: []string{"desk"}, PerKeyword: 10, K: 1}
	assert.ErrorIs(t, r.Normalize(), ErrInputInvalid)
}

func TestJobRequestNormalize_AcceptsAutoK(t *testing.T) {
	r := &JobRequest{Keywords: []string{"desk"}, PerKeyword: 10, K: 0}
	assert.NoError(t, r.Normalize())
}
