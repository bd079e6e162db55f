package generation

import (
	"context"

	"github.com/futig/resomate/internal/entity"
	"golang.org/x/sync/errgroup"
)

// speechPrimaryTier asks for the speech body and its rhetoric inserts concurrently.
// The tier fails if either call exhausts its attempts.
func (uc *GenerationUsecase) speechPrimaryTier(ctx context.Context, req entity.GenerationRequest) (entity.Content, error) {
	params := req.Params()

	var (
		draft   *entity.DraftSpeech
		devices []entity.RhetoricDevice
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		draft, err = runTier(gctx, uc, entity.TierPrimary, req.Kind(), speechPrompt(entity.TierPrimary, params), uc.parseDraftSpeech)
		return err
	})
	g.Go(func() error {
		var err error
		devices, err = runTier(gctx, uc, entity.TierPrimary, req.Kind(), rhetoricPrompt(entity.TierPrimary, params), uc.parseDevices)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &entity.SpeechContent{
		DraftSpeech:     *draft,
		RhetoricInserts: devices,
	}, nil
}
