package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"credential-market/internal/core/domain"
	"credential-market/internal/core/ports"
	"credential-market/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const gameListingTTL = 60 * time.Second

// CatalogServiceImpl implements ports.CatalogService.
type CatalogServiceImpl struct {
	goodRepo     ports.GoodRepository
	gameRepo     ports.GameRepository
	userRepo     ports.UserRepository
	purchaseRepo ports.PurchaseRepository
	cache        ports.CatalogCache
	transactor   ports.DBTransactor
	log          zerolog.Logger
}

// NewCatalogService creates a new CatalogServiceImpl.
func NewCatalogService(
	goodRepo ports.GoodRepository,
	gameRepo ports.GameRepository,
	userRepo ports.UserRepository,
	purchaseRepo ports.PurchaseRepository,
	cache ports.CatalogCache,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *CatalogServiceImpl {
	return &CatalogServiceImpl{
		goodRepo:     goodRepo,
		gameRepo:     gameRepo,
		userRepo:     userRepo,
		purchaseRepo: purchaseRepo,
		cache:        cache,
		transactor:   transactor,
		log:          log,
	}
}

// CreateGood lists a new good. The first listing promotes the account from
// USER to SELLER.
func (s *CatalogServiceImpl) CreateGood(ctx context.Context, req ports.CreateGoodRequest) (*domain.Good, error) {
	if req.Price <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.Name == "" {
		return nil, apperror.Validation("name is required")
	}
	if req.Credentials.Login == "" || req.Credentials.Password == "" {
		return nil, apperror.Validation("credential login and password are required")
	}

	seller, err := s.userRepo.GetByID(ctx, req.SellerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find seller: %w", err))
	}
	if seller == nil {
		return nil, apperror.ErrNotFound("seller")
	}
	if seller.IsBlocked() {
		return nil, apperror.ErrAccountBlocked()
	}

	creds := req.Credentials
	creds.SchemaVersion = domain.CredentialSchemaVersion

	now := time.Now().UTC()
	good := &domain.Good{
		ID:          uuid.New(),
		SellerID:    req.SellerID,
		GameID:      req.GameID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Credentials: creds,
		Visibility:  domain.VisibilityListed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.goodRepo.Create(ctx, good); err != nil {
		return nil, storeError(fmt.Errorf("create good: %w", err))
	}

	if seller.Role == domain.RoleUser {
		if err := s.promoteToSeller(ctx, req.SellerID); err != nil {
			s.log.Warn().Err(err).Str("user_id", req.SellerID.String()).Msg("failed to promote seller role")
		}
	}

	if err := s.cache.InvalidateGame(ctx, req.GameID); err != nil {
		s.log.Warn().Err(err).Str("game_id", req.GameID.String()).Msg("failed to invalidate game listing cache")
	}

	s.log.Info().
		Str("good_id", good.ID.String()).
		Str("seller_id", req.SellerID.String()).
		Int64("price", req.Price).
		Msg("good listed")

	return good, nil
}

// GetOffer returns the public offer page for a good.
func (s *CatalogServiceImpl) GetOffer(ctx context.Context, goodID uuid.UUID) (*domain.Offer, error) {
	offer, err := s.goodRepo.GetOffer(ctx, goodID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find offer: %w", err))
	}
	if offer == nil {
		return nil, apperror.ErrNotFound("good")
	}
	return offer, nil
}

// ListByGame returns the listed goods of a game, through the read cache.
// Cache errors fall through to the store.
func (s *CatalogServiceImpl) ListByGame(ctx context.Context, gameID uuid.UUID) ([]domain.Good, error) {
	cached, err := s.cache.GetGameListing(ctx, gameID)
	if err != nil {
		s.log.Warn().Err(err).Str("game_id", gameID.String()).Msg("game listing cache read failed")
	}
	if cached != nil {
		var goods []domain.Good
		if err := json.Unmarshal(cached, &goods); err == nil {
			return goods, nil
		}
		s.log.Warn().Str("game_id", gameID.String()).Msg("discarding malformed cached game listing")
	}

	goods, err := s.goodRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list goods: %w", err))
	}

	if payload, err := json.Marshal(goods); err == nil {
		if err := s.cache.SetGameListing(ctx, gameID, payload, gameListingTTL); err != nil {
			s.log.Warn().Err(err).Str("game_id", gameID.String()).Msg("game listing cache write failed")
		}
	}

	return goods, nil
}

// ListBySeller returns the listed goods of a seller.
func (s *CatalogServiceImpl) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.Good, error) {
	goods, err := s.goodRepo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list goods: %w", err))
	}
	return goods, nil
}

// Hide takes a listed good off the market. Only the seller or support may
// hide; the transition uses the same lock-then-flip discipline as a
// purchase, so it cannot race with one.
func (s *CatalogServiceImpl) Hide(ctx context.Context, goodID, actorID uuid.UUID) error {
	return s.flipVisibility(ctx, goodID, actorID, false)
}

// Publish puts a hidden good back on the market. Goods with a recorded
// purchase stay sold.
func (s *CatalogServiceImpl) Publish(ctx context.Context, goodID, actorID uuid.UUID) error {
	return s.flipVisibility(ctx, goodID, actorID, true)
}

func (s *CatalogServiceImpl) flipVisibility(ctx context.Context, goodID, actorID uuid.UUID, publish bool) error {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("find actor: %w", err))
	}
	if actor == nil {
		return apperror.ErrNotFound("user")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return storeError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	good, err := s.goodRepo.GetByIDForUpdate(ctx, dbTx, goodID)
	if err != nil {
		return storeError(fmt.Errorf("lock good: %w", err))
	}
	if good == nil {
		return apperror.ErrNotFound("good")
	}
	if good.SellerID != actorID && !actor.CanModerate() {
		return apperror.ErrForbidden()
	}

	if publish {
		if actor.IsBlocked() {
			return apperror.ErrAccountBlocked()
		}
		// A good with a recorded sale is permanently off the market. The
		// history read goes through the open transaction so the check and
		// the flip see the same state.
		purchase, err := s.purchaseRepo.GetByGoodIDTx(ctx, dbTx, goodID)
		if err != nil {
			return storeError(fmt.Errorf("check purchase history: %w", err))
		}
		if purchase != nil {
			return apperror.ErrGoodUnavailable()
		}
		flipped, err := s.goodRepo.MarkListed(ctx, dbTx, goodID)
		if err != nil {
			return storeError(fmt.Errorf("mark listed: %w", err))
		}
		if !flipped {
			return apperror.ErrGoodUnavailable()
		}
	} else {
		flipped, err := s.goodRepo.MarkSold(ctx, dbTx, goodID)
		if err != nil {
			return storeError(fmt.Errorf("mark sold: %w", err))
		}
		if !flipped {
			return apperror.ErrGoodUnavailable()
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return storeError(fmt.Errorf("commit tx: %w", err))
	}

	if err := s.cache.InvalidateGame(ctx, good.GameID); err != nil {
		s.log.Warn().Err(err).Str("game_id", good.GameID.String()).Msg("failed to invalidate game listing cache")
	}

	s.log.Info().
		Str("good_id", goodID.String()).
		Str("actor_id", actorID.String()).
		Bool("published", publish).
		Msg("good visibility changed")

	return nil
}

// RevealCredentials returns the payload of a sold good to its recorded
// buyer or to the seller.
func (s *CatalogServiceImpl) RevealCredentials(ctx context.Context, goodID, requesterID uuid.UUID) (*domain.Credentials, error) {
	good, err := s.goodRepo.GetByID(ctx, goodID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find good: %w", err))
	}
	if good == nil {
		return nil, apperror.ErrNotFound("good")
	}

	if good.SellerID == requesterID {
		creds := good.Credentials
		return &creds, nil
	}

	purchase, err := s.purchaseRepo.GetByGoodID(ctx, goodID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find purchase: %w", err))
	}
	if purchase == nil || purchase.BuyerID != requesterID {
		return nil, apperror.ErrForbidden()
	}

	creds := good.Credentials
	return &creds, nil
}

// CreateGame adds a game to the catalog. Support only; enforced by the
// HTTP layer's role guard.
func (s *CatalogServiceImpl) CreateGame(ctx context.Context, name, image string) (*domain.Game, error) {
	if name == "" {
		return nil, apperror.Validation("name is required")
	}

	game := &domain.Game{
		ID:        uuid.New(),
		Name:      name,
		Image:     image,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.gameRepo.Create(ctx, game); err != nil {
		return nil, storeError(fmt.Errorf("create game: %w", err))
	}

	s.log.Info().Str("game_id", game.ID.String()).Str("name", name).Msg("game created")
	return game, nil
}

// ListGames returns the full game catalog.
func (s *CatalogServiceImpl) ListGames(ctx context.Context) ([]domain.Game, error) {
	games, err := s.gameRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list games: %w", err))
	}
	return games, nil
}

// CountGames returns the catalog size.
func (s *CatalogServiceImpl) CountGames(ctx context.Context) (int64, error) {
	count, err := s.gameRepo.Count(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("count games: %w", err))
	}
	return count, nil
}

// SearchGames returns games whose name starts with the query.
func (s *CatalogServiceImpl) SearchGames(ctx context.Context, query string) ([]domain.Game, error) {
	games, err := s.gameRepo.SearchByName(ctx, query)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("search games: %w", err))
	}
	return games, nil
}

func (s *CatalogServiceImpl) promoteToSeller(ctx context.Context, userID uuid.UUID) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.userRepo.UpdateRole(ctx, dbTx, userID, domain.RoleSeller); err != nil {
		return fmt.Errorf("update role: %w", err)
	}

	return dbTx.Commit(ctx)
}
