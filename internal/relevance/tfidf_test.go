package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorizerFitAndTransform(t *testing.T) {
	v := NewVectorizer()
	corpus := []string{
		"solar power grid expansion",
		"solar panel prices drop",
		"central bank raises rates",
	}
	require.NoError(t, v.Fit(corpus))
	assert.Greater(t, v.Dimension(), 0)

	vec, err := v.Transform("solar power grid expansion")
	require.NoError(t, err)
	assert.Len(t, vec, v.Dimension())

	// produced vectors are L2-normalized, self-similarity is 1
	assert.InDelta(t, 1.0, Cosine(vec, vec), 1e-9)
}

func TestVectorizerUnknownTokensZeroVector(t *testing.T) {
	v := NewVectorizer()
	require.NoError(t, v.Fit([]string{"solar power"}))

	vec, err := v.Transform("quantum entanglement")
	require.NoError(t, err)
	for _, val := range vec {
		assert.Zero(t, val)
	}
}

func TestVectorizerNotFitted(t *testing.T) {
	v := NewVectorizer()
	_, err := v.Transform("anything")
	assert.Error(t, err)
}

func TestVectorizerEmptyCorpus(t *testing.T) {
	v := NewVectorizer()
	assert.Error(t, v.Fit(nil))
}

func TestCosineOrdersByOverlap(t *testing.T) {
	v := NewVectorizer()
	corpus := []string{
		"quantum computing hardware",
		"quantum physics lecture notes summary review",
		"football season results",
		"quantum computing",
	}
	require.NoError(t, v.Fit(corpus))

	q, err := v.Transform("quantum computing")
	require.NoError(t, err)

	exact, _ := v.Transform("quantum computing")
	partial, _ := v.Transform("quantum physics lecture notes summary review")
	unrelated, _ := v.Transform("football season results")

	assert.InDelta(t, 1.0, Cosine(q, exact), 1e-9)
	assert.Greater(t, Cosine(q, exact), Cosine(q, partial))
	assert.Greater(t, Cosine(q, partial), 0.0)
	assert.Zero(t, Cosine(q, unrelated))
}
