package provider

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/receipt-vision/internal/ocr"
)

func TestEngineManagerInitializesOnce(t *testing.T) {
	var calls atomic.Int32
	m := NewEngineManager(func() (*ocr.Extractor, error) {
		calls.Add(1)
		return ocr.NewExtractor(ocr.Config{}, nil), nil
	}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := m.Get(context.Background())
			assert.NoError(t, err)
			assert.NotNil(t, e)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestEngineManagerCachesFailure(t *testing.T) {
	var calls atomic.Int32
	bootErr := errors.New("tesseract unavailable")
	m := NewEngineManager(func() (*ocr.Extractor, error) {
		calls.Add(1)
		return nil, bootErr
	}, nil)

	_, err := m.Get(context.Background())
	require.ErrorIs(t, err, bootErr)

	_, err = m.Get(context.Background())
	require.ErrorIs(t, err, bootErr)
	assert.Equal(t, int32(1), calls.Load(), "failed init must not retry")
}

func TestEngineManagerWaiterHonorsContext(t *testing.T) {
	release := make(chan struct{})
	m := NewEngineManager(func() (*ocr.Extractor, error) {
		<-release
		return ocr.NewExtractor(ocr.Config{}, nil), nil
	}, nil)

	started := make(chan struct{})
	go func() {
		close(started)
		_, _ = m.Get(context.Background())
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	waiter := make(chan error, 1)
	go func() {
		_, err := m.Get(ctx)
		waiter <- err
	}()

	err := <-waiter
	// either the canceled wait or, if init won the race, a ready engine
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
	close(release)
}
