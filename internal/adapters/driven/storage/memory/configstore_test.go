package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("llm.model", "qwen-plus"))

	val, ok := store.Get("llm.model")
	assert.True(t, ok)
	assert.Equal(t, "qwen-plus", val)
	assert.Equal(t, "qwen-plus", store.GetString("llm.model"))
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("extract.page_limit", int64(3))
	_ = store.Set("extract.max_text_chars", 12000)
	_ = store.Set("llm.timeout", 30.5)
	_ = store.Set("history.enabled", true)

	assert.Equal(t, 3, store.GetInt("extract.page_limit"))
	assert.Equal(t, 12000, store.GetInt("extract.max_text_chars"))
	assert.Equal(t, 30, store.GetInt("llm.timeout"))
	assert.InDelta(t, 30.5, store.GetFloat("llm.timeout"), 0.0001)
	assert.InDelta(t, 3.0, store.GetFloat("extract.page_limit"), 0.0001)
	assert.True(t, store.GetBool("history.enabled"))
}

func TestConfigStore_WrongTypesReturnZero(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("llm.model", 42)
	_ = store.Set("llm.timeout", "soon")

	assert.Equal(t, "", store.GetString("llm.model"))
	assert.Zero(t, store.GetFloat("llm.timeout"))
	assert.Zero(t, store.GetInt("missing"))
	assert.False(t, store.GetBool("llm.model"))
}

func TestConfigStore_Delete(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("llm.api_key", "sk-test")

	require.NoError(t, store.Delete("llm.api_key"))
	require.NoError(t, store.Delete("never.set"))

	_, ok := store.Get("llm.api_key")
	assert.False(t, ok)
}

func TestConfigStore_SaveLoadPath(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("llm.model", "qwen-plus")

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, "qwen-plus", store.GetString("llm.model"))
	assert.Equal(t, ":memory:", store.Path())
}

func TestNewConfigStoreWith_CopiesSeed(t *testing.T) {
	seed := map[string]any{"llm.base_url": "http://localhost:8080/v1", "history.enabled": false}
	store := NewConfigStoreWith(seed)

	seed["llm.base_url"] = "changed"
	_ = store.Set("llm.model", "m")

	assert.Equal(t, "http://localhost:8080/v1", store.GetString("llm.base_url"))
	_, ok := seed["llm.model"]
	assert.False(t, ok)
}

func TestConfigStore_Snapshot(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("extract.page_limit", 2)

	snap := store.Snapshot()
	snap["extract.page_limit"] = 9

	assert.Equal(t, map[string]any{"extract.page_limit": 9}, snap)
	assert.Equal(t, 2, store.GetInt("extract.page_limit"))
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("extract.page_limit", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("extract.page_limit")
		}()
	}
	wg.Wait()

	_, ok := store.Get("extract.page_limit")
	assert.True(t, ok)
}
