package settings

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestDefaults(t *testing.T) {
	s := NewStore(Defaults()).Snapshot()
	assert.Equal(t, "headlines", s.NewsCategory)
	assert.Equal(t, StyleProfessional, s.AnchorStyle)
	assert.True(t, s.Features.LiveNews)
	assert.True(t, s.Features.MockFallback)
	assert.False(t, s.Features.DetailedMode)
	assert.Equal(t, 0.3, s.LLM.Temperature)
	assert.Equal(t, 100, s.LLM.MaxTokens)
	assert.Nil(t, s.LastNewsUpdate)
}

func TestNewStoreNormalizesInvalidInitial(t *testing.T) {
	s := NewStore(Snapshot{NewsCategory: "gossip", AnchorStyle: "sarcastic"}).Snapshot()
	assert.Equal(t, "headlines", s.NewsCategory)
	assert.Equal(t, StyleProfessional, s.AnchorStyle)
}

func TestApplyIgnoresUnknownEnumValues(t *testing.T) {
	st := NewStore(Defaults())

	a := st.Apply(Update{
		NewsCategory: ptr("gossip"),
		AnchorStyle:  ptr("sarcastic"),
		CustomPrompt: ptr("Mention the weather."),
	})
	assert.Nil(t, a.NewsCategory)
	assert.Nil(t, a.AnchorStyle)
	require.NotNil(t, a.CustomPrompt)

	s := st.Snapshot()
	assert.Equal(t, "headlines", s.NewsCategory)
	assert.Equal(t, StyleProfessional, s.AnchorStyle)
	assert.Equal(t, "Mention the weather.", s.CustomPrompt)
}

func TestApplyCategoryChange(t *testing.T) {
	st := NewStore(Defaults())

	a := st.Apply(Update{NewsCategory: ptr("Sports")})
	assert.True(t, a.CategoryChanged)
	assert.Equal(t, "sports", *a.NewsCategory)

	a = st.Apply(Update{NewsCategory: ptr("sports")})
	assert.False(t, a.CategoryChanged)
}

func TestApplyPartialFeaturesKeepsOthers(t *testing.T) {
	st := NewStore(Defaults())
	st.Apply(Update{Features: &FeaturesUpdate{DetailedMode: ptr(true)}})

	s := st.Snapshot()
	assert.True(t, s.Features.DetailedMode)
	assert.True(t, s.Features.LiveNews)
	assert.True(t, s.Features.MockFallback)
}

func TestApplyRejectsInvalidLLMParams(t *testing.T) {
	st := NewStore(Defaults())
	a := st.Apply(Update{LLM: &LLMUpdate{Temperature: ptr(-1.0), MaxTokens: ptr(0)}})
	assert.Nil(t, a.LLM.Temperature)
	assert.Nil(t, a.LLM.MaxTokens)

	st.Apply(Update{LLM: &LLMUpdate{Temperature: ptr(0.7)}})
	s := st.Snapshot()
	assert.Equal(t, 0.7, s.LLM.Temperature)
	assert.Equal(t, 100, s.LLM.MaxTokens)
}

func TestSequentialDisjointUpdatesBothLand(t *testing.T) {
	st := NewStore(Defaults())
	st.Apply(Update{AnchorStyle: ptr(StyleCasual)})
	st.Apply(Update{Features: &FeaturesUpdate{DetailedMode: ptr(true)}})

	s := st.Snapshot()
	assert.Equal(t, StyleCasual, s.AnchorStyle)
	assert.True(t, s.Features.DetailedMode)
}

func TestApplyIsAtomicForReaders(t *testing.T) {
	st := NewStore(Defaults())

	// Writers flip style and detailed mode together; a reader must never see
	// one without the other.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if i%2 == 0 {
				st.Apply(Update{AnchorStyle: ptr(StyleCasual), Features: &FeaturesUpdate{DetailedMode: ptr(true)}})
			} else {
				st.Apply(Update{AnchorStyle: ptr(StyleProfessional), Features: &FeaturesUpdate{DetailedMode: ptr(false)}})
			}
		}
	}()

	for i := 0; i < 2000; i++ {
		s := st.Snapshot()
		assert.Equal(t, s.AnchorStyle == StyleCasual, s.Features.DetailedMode)
	}
	close(stop)
	wg.Wait()
}

func TestSnapshotIsACopy(t *testing.T) {
	st := NewStore(Defaults())
	st.MarkNewsUpdated(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	s := st.Snapshot()
	*s.LastNewsUpdate = time.Time{}
	assert.False(t, st.Snapshot().LastNewsUpdate.IsZero())
}

func TestUpdateDecodesControlPayload(t *testing.T) {
	var u Update
	err := json.Unmarshal([]byte(`{"anchorStyle":"casual","features":{"detailed_mode":true},"llmParams":{"max_tokens":150},"unknown":1}`), &u)
	require.NoError(t, err)
	require.NotNil(t, u.AnchorStyle)
	assert.Equal(t, "casual", *u.AnchorStyle)
	assert.True(t, *u.Features.DetailedMode)
	assert.Nil(t, u.Features.LiveNews)
	assert.Equal(t, 150, *u.LLM.MaxTokens)
	assert.Nil(t, u.NewsCategory)
}
