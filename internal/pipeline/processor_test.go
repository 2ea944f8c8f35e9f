package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/receipt-vision/constants"
	"github.com/joseph-ayodele/receipt-vision/internal/common"
	"github.com/joseph-ayodele/receipt-vision/internal/extract"
	"github.com/joseph-ayodele/receipt-vision/internal/fusion"
	"github.com/joseph-ayodele/receipt-vision/internal/imagequality"
	"github.com/joseph-ayodele/receipt-vision/internal/provider"
	"github.com/joseph-ayodele/receipt-vision/internal/repository"
	"github.com/joseph-ayodele/receipt-vision/internal/warranty"
)

const goodReceiptText = `CORNER MARKET
Organic Milk 4.99
Paper Towels 8.49
Apples 2 x 1.50 = 3.00
TOTAL $16.48
08/12/2024`

type fakeProvider struct {
	id    constants.ProviderID
	res   provider.RecognitionResult
	err   error
	delay time.Duration
	calls int
}

func (f *fakeProvider) ID() constants.ProviderID { return f.id }

func (f *fakeProvider) Recognize(ctx context.Context, _ []byte) (provider.RecognitionResult, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return provider.RecognitionResult{}, ctx.Err()
		}
	}
	if f.err != nil {
		return provider.RecognitionResult{}, f.err
	}
	res := f.res
	res.Provider = f.id
	return res, nil
}

type memStore struct {
	images map[uuid.UUID]repository.StoredImage
}

func newMemStore() *memStore {
	return &memStore{images: make(map[uuid.UUID]repository.StoredImage)}
}

func (m *memStore) Put(_ context.Context, img repository.StoredImage) error {
	m.images[img.ID] = img
	return nil
}

func (m *memStore) Get(_ context.Context, id uuid.UUID) (repository.StoredImage, error) {
	img, ok := m.images[id]
	if !ok {
		return repository.StoredImage{}, common.NotFoundError("image " + id.String())
	}
	return img, nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.images, id)
	return nil
}

func (m *memStore) Close() error { return nil }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProcessor(store repository.ImageStore, providers ...provider.TextRecognitionProvider) *Processor {
	logger := quietLogger()
	registry := provider.NewRegistry()
	for _, p := range providers {
		registry.Register(p)
	}
	return NewProcessor(Deps{
		Assessor:   imagequality.NewAssessor(logger),
		Registry:   registry,
		Selector:   provider.NewSelector(registry, logger),
		Items:      extract.NewEngine(logger),
		Fields:     extract.NewFieldExtractor(),
		Fuser:      fusion.NewEngine(nil),
		Warranties: warranty.NewEngine(nil, logger),
		Store:      store,
		Logger:     logger,
	}, 5*time.Second)
}

func TestProcessHappyPath(t *testing.T) {
	primary := &fakeProvider{
		id:  constants.ProviderAnthropic,
		res: provider.RecognitionResult{Text: goodReceiptText, Confidence: 0.95},
	}
	local := &fakeProvider{id: constants.ProviderLocal}
	p := newTestProcessor(nil, primary, local)

	res, err := p.Process(context.Background(), Request{Image: []byte("not-a-real-image")})
	require.NoError(t, err)

	assert.Equal(t, "CORNER MARKET", res.MerchantName)
	assert.Equal(t, 16.48, res.TotalAmount)
	assert.Equal(t, time.Date(2024, 8, 12, 0, 0, 0, 0, time.UTC), res.PurchaseDate)
	assert.Equal(t, constants.ProviderAnthropic, res.Metadata.Provider)
	assert.GreaterOrEqual(t, len(res.Items), 3)
	assert.NotContains(t, res.Metadata.Flags, constants.FlagFallbackUsed)
	assert.False(t, res.Metadata.Validation.Mismatch)
	assert.Greater(t, res.Confidence, 0.8)
	assert.NotEmpty(t, res.Metadata.RequestID)
	assert.Equal(t, 0, local.calls, "fallback not consulted for a good primary result")
}

func TestProcessNoImage(t *testing.T) {
	p := newTestProcessor(nil, &fakeProvider{id: constants.ProviderLocal})

	_, err := p.Process(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, common.CodeInputError, common.Code(err))
}

func TestProcessAllProvidersFail(t *testing.T) {
	primary := &fakeProvider{id: constants.ProviderAnthropic, err: errors.New("quota exceeded")}
	local := &fakeProvider{id: constants.ProviderLocal, err: errors.New("tesseract missing")}
	p := newTestProcessor(nil, primary, local)

	_, err := p.Process(context.Background(), Request{Image: []byte("img")})
	require.Error(t, err)
	assert.Equal(t, common.CodeEngineUnavailable, common.Code(err))
	assert.ErrorIs(t, err, common.ErrEngineUnavailable)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, local.calls)
}

func TestProcessFallbackEscalation(t *testing.T) {
	primary := &fakeProvider{
		id:  constants.ProviderAnthropic,
		res: provider.RecognitionResult{Text: "zx", Confidence: 0.05},
	}
	local := &fakeProvider{
		id:  constants.ProviderLocal,
		res: provider.RecognitionResult{Text: goodReceiptText, Confidence: 0.9},
	}
	p := newTestProcessor(nil, primary, local)

	res, err := p.Process(context.Background(), Request{Image: []byte("img")})
	require.NoError(t, err)
	assert.Equal(t, constants.ProviderLocal, res.Metadata.Provider)
	assert.Contains(t, res.Metadata.Flags, constants.FlagFallbackUsed)
	assert.Equal(t, 1, local.calls)
}

func TestProcessKeptLowQualityResultAnnotated(t *testing.T) {
	primary := &fakeProvider{
		id:  constants.ProviderAnthropic,
		res: provider.RecognitionResult{Text: "zx market zz", Confidence: 0.1},
	}
	local := &fakeProvider{id: constants.ProviderLocal, err: errors.New("tesseract missing")}
	p := newTestProcessor(nil, primary, local)

	res, err := p.Process(context.Background(), Request{Image: []byte("img")})
	require.NoError(t, err)
	assert.Less(t, res.Metadata.ResultQuality, constants.ResultQualityLowThreshold)
	assert.Contains(t, res.Metadata.Flags, constants.FlagLowConfidence)
	assert.Contains(t, res.Metadata.Flags, constants.FlagNeedsReview)
	assert.NotContains(t, res.Metadata.Flags, constants.FlagFallbackUsed)
}

func TestProcessPrimaryFailsFallbackRescues(t *testing.T) {
	primary := &fakeProvider{id: constants.ProviderAnthropic, err: errors.New("upstream 500")}
	local := &fakeProvider{
		id:  constants.ProviderLocal,
		res: provider.RecognitionResult{Text: goodReceiptText, Confidence: 0.85},
	}
	p := newTestProcessor(nil, primary, local)

	res, err := p.Process(context.Background(), Request{Image: []byte("img")})
	require.NoError(t, err)
	assert.Equal(t, constants.ProviderLocal, res.Metadata.Provider)
	assert.Contains(t, res.Metadata.Flags, constants.FlagFallbackUsed)
}

func TestProcessNoTextFound(t *testing.T) {
	primary := &fakeProvider{
		id:  constants.ProviderAnthropic,
		res: provider.RecognitionResult{Text: "   \n  ", Confidence: 0.9},
	}
	local := &fakeProvider{
		id:  constants.ProviderLocal,
		res: provider.RecognitionResult{Text: "", Confidence: 0.9},
	}
	p := newTestProcessor(nil, primary, local)

	_, err := p.Process(context.Background(), Request{Image: []byte("img")})
	require.Error(t, err)
	assert.Equal(t, common.CodeNoTextFound, common.Code(err))
}

func TestProcessTimeout(t *testing.T) {
	slow := &fakeProvider{
		id:    constants.ProviderAnthropic,
		res:   provider.RecognitionResult{Text: goodReceiptText, Confidence: 0.9},
		delay: 500 * time.Millisecond,
	}
	local := &fakeProvider{id: constants.ProviderLocal, delay: 500 * time.Millisecond}
	p := newTestProcessor(nil, slow, local)

	_, err := p.Process(context.Background(), Request{Image: []byte("img"), TimeoutMs: 30})
	require.Error(t, err)
	assert.Equal(t, common.CodeTimeout, common.Code(err))
}

func TestProcessZeroBudgetUsesLocal(t *testing.T) {
	cloud := &fakeProvider{
		id:  constants.ProviderAnthropic,
		res: provider.RecognitionResult{Text: goodReceiptText, Confidence: 0.95},
	}
	local := &fakeProvider{
		id:  constants.ProviderLocal,
		res: provider.RecognitionResult{Text: goodReceiptText, Confidence: 0.7},
	}
	p := newTestProcessor(nil, cloud, local)

	zero := 0.0
	res, err := p.Process(context.Background(), Request{Image: []byte("img"), BudgetLimit: &zero})
	require.NoError(t, err)
	assert.Equal(t, constants.ProviderLocal, res.Metadata.Provider)
	assert.Equal(t, 0, cloud.calls)
}

func TestProcessValidationMismatchFlagged(t *testing.T) {
	text := "CORNER MARKET\nOrganic Milk 4.99\nTOTAL $40.00\n08/12/2024"
	primary := &fakeProvider{
		id:  constants.ProviderAnthropic,
		res: provider.RecognitionResult{Text: text, Confidence: 0.95},
	}
	local := &fakeProvider{id: constants.ProviderLocal}
	p := newTestProcessor(nil, primary, local)

	res, err := p.Process(context.Background(), Request{Image: []byte("img")})
	require.NoError(t, err)
	assert.True(t, res.Metadata.Validation.Mismatch)
	assert.Contains(t, res.Metadata.Flags, constants.FlagValidationMismatch)
}

func TestProcessWarranties(t *testing.T) {
	text := "BEST BUY\nSAMSUNG 55IN TV 499.99\n2 year manufacturer warranty\nTOTAL $499.99\n08/12/2024"
	primary := &fakeProvider{
		id:  constants.ProviderAnthropic,
		res: provider.RecognitionResult{Text: text, Confidence: 0.95},
	}
	local := &fakeProvider{id: constants.ProviderLocal}
	p := newTestProcessor(nil, primary, local)

	res, err := p.Process(context.Background(), Request{Image: []byte("img"), Warranties: true})
	require.NoError(t, err)
	require.NotEmpty(t, res.Warranties)
	for _, w := range res.Warranties {
		assert.True(t, w.Period.Sane())
		assert.False(t, w.Expiration.IsZero())
	}
}

func TestProcessPersistAndReprocess(t *testing.T) {
	store := newMemStore()
	primary := &fakeProvider{
		id:  constants.ProviderAnthropic,
		res: provider.RecognitionResult{Text: goodReceiptText, Confidence: 0.95},
	}
	local := &fakeProvider{id: constants.ProviderLocal}
	p := newTestProcessor(store, primary, local)

	first, err := p.Process(context.Background(), Request{Image: []byte("img-bytes"), Persist: true})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, first.Metadata.ImageID)
	require.Len(t, store.images, 1)

	again, err := p.Reprocess(context.Background(), Request{ImageRef: first.Metadata.ImageID})
	require.NoError(t, err)
	assert.Equal(t, first.MerchantName, again.MerchantName)
	assert.Equal(t, first.TotalAmount, again.TotalAmount)
	assert.Equal(t, first.Metadata.ImageID, again.Metadata.ImageID)
	assert.Len(t, store.images, 1, "reprocessing must not duplicate the image")
}

func TestReprocessUnknownImage(t *testing.T) {
	p := newTestProcessor(newMemStore(), &fakeProvider{id: constants.ProviderLocal})

	_, err := p.Reprocess(context.Background(), Request{ImageRef: uuid.New()})
	require.Error(t, err)
	assert.Equal(t, common.CodeNotFound, common.Code(err))
}
