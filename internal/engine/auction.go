package engine

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/shopspring/decimal"
    "github.com/sirupsen/logrus"

    "github.com/rajveermakkar/justBet-api/internal/model"
    "github.com/rajveermakkar/justBet-api/internal/repository"
)

// Default listing parameters applied when the seller leaves them unset.
var (
    defaultSettledFeePct    = decimal.NewFromInt(10)
    defaultLiveFeePct       = decimal.NewFromInt(20)
    defaultBuyerPremiumPct  = decimal.NewFromInt(5)
    defaultListingFee       = decimal.NewFromInt(10)
    defaultBidIncrement     = decimal.NewFromInt(1)
    defaultMinWalletBalance = decimal.NewFromInt(50)
)

// defaultTimeExtension is the live-auction anti-snipe window in seconds.
const defaultTimeExtension = 30

// CreateAuctionInput carries the seller-supplied listing fields.  Zero
// monetary fields fall back to platform defaults.
type CreateAuctionInput struct {
    Title                string
    Description          string
    StartingPrice        decimal.Decimal
    EndTime              time.Time
    Type                 model.AuctionType
    MinimumBidIncrement  decimal.Decimal
    TimeExtension        int
    MinimumWalletBalance decimal.Decimal
    MinimumBidAmount     decimal.Decimal
}

// AuctionService handles listing creation and catalogue reads.  Creation
// charges the seller the flat listing fee in the same transaction that
// inserts the auction, so a seller who cannot cover the fee never lists.
type AuctionService struct {
    store          repository.Store
    notif          Notifier
    platformUserID uint64
    log            *logrus.Logger
    now            func() time.Time
}

// NewAuctionService constructs an AuctionService.
func NewAuctionService(store repository.Store, notif Notifier, platformUserID uint64, log *logrus.Logger) *AuctionService {
    return &AuctionService{
        store:          store,
        notif:          notif,
        platformUserID: platformUserID,
        log:            log,
        now:            time.Now,
    }
}

// Create validates the listing, inserts it, and charges the seller the
// listing fee.  The fee is credited to the platform wallet immediately.
func (s *AuctionService) Create(ctx context.Context, sellerID uint64, in CreateAuctionInput) (*model.Auction, error) {
    if in.Title == "" {
        return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
    }
    if in.StartingPrice.Cmp(decimal.Zero) <= 0 {
        return nil, fmt.Errorf("%w: starting price must be positive", ErrInvalidInput)
    }
    if !in.EndTime.After(s.now()) {
        return nil, fmt.Errorf("%w: end time must be in the future", ErrInvalidInput)
    }
    if in.Type == "" {
        in.Type = model.AuctionTypeSettled
    }
    if in.Type != model.AuctionTypeSettled && in.Type != model.AuctionTypeLive {
        return nil, fmt.Errorf("%w: unknown auction type %q", ErrInvalidInput, in.Type)
    }
    if in.MinimumBidIncrement.Cmp(decimal.Zero) <= 0 {
        in.MinimumBidIncrement = defaultBidIncrement
    }
    if in.Type == model.AuctionTypeLive {
        if in.TimeExtension <= 0 {
            in.TimeExtension = defaultTimeExtension
        }
        if in.MinimumWalletBalance.Cmp(decimal.Zero) <= 0 {
            in.MinimumWalletBalance = defaultMinWalletBalance
        }
        if in.MinimumBidAmount.Cmp(decimal.Zero) <= 0 {
            in.MinimumBidAmount = in.StartingPrice
        }
        if in.MinimumBidAmount.Cmp(in.StartingPrice) < 0 {
            return nil, fmt.Errorf("%w: minimum bid amount cannot be below the starting price", ErrInvalidInput)
        }
    }

    a := &model.Auction{
        Title:                    in.Title,
        Description:              in.Description,
        StartingPrice:            in.StartingPrice,
        CurrentPrice:             in.StartingPrice,
        EndTime:                  in.EndTime,
        Status:                   model.AuctionStatusActive,
        SellerID:                 sellerID,
        Type:                     in.Type,
        MinimumBidIncrement:      in.MinimumBidIncrement,
        TimeExtension:            in.TimeExtension,
        MinimumWalletBalance:     in.MinimumWalletBalance,
        MinimumBidAmount:         in.MinimumBidAmount,
        PlatformFeePercentage:    defaultSettledFeePct,
        LiveAuctionFeePercentage: defaultLiveFeePct,
        BuyerPremiumPercentage:   defaultBuyerPremiumPct,
        ListingFee:               defaultListingFee,
    }

    err := s.store.InTx(ctx, func(tx repository.Tx) error {
        seller, err := tx.WalletForUpdate(ctx, sellerID)
        if err != nil {
            return err
        }
        if seller.Balance.Cmp(a.ListingFee) < 0 {
            return repository.ErrInsufficientFunds
        }
        if err := tx.InsertAuction(ctx, a); err != nil {
            return err
        }
        desc := fmt.Sprintf("Listing fee for auction #%d", a.ID)
        if _, err := tx.Debit(ctx, seller.ID, a.ListingFee, model.TransactionPlatformFee, model.TransactionCompleted, desc); err != nil {
            return err
        }
        if err := tx.InsertListingFee(ctx, a.ID, a.ListingFee); err != nil {
            return err
        }
        platform, err := tx.EnsureWallet(ctx, s.platformUserID)
        if err != nil {
            return err
        }
        if _, err := tx.Credit(ctx, platform.ID, a.ListingFee, model.TransactionPlatformFee, model.TransactionCompleted, desc); err != nil {
            return err
        }
        return tx.AddEarnings(ctx, platform.ID, a.ListingFee)
    })
    if err != nil {
        return nil, err
    }

    s.log.WithFields(logrus.Fields{
        "auction_id": a.ID,
        "seller_id":  sellerID,
        "type":       a.Type,
    }).Info("auction created")
    if err := s.notif.AuctionCreated(ctx, a); err != nil {
        s.log.WithError(err).Warn("auction created notification failed")
    }
    return a, nil
}

// Get returns a single auction.
func (s *AuctionService) Get(ctx context.Context, id uint64) (*model.Auction, error) {
    return s.store.GetAuction(ctx, id)
}

// AuctionDetail is the public detail view of a listing: the auction
// plus the seller's display name.
type AuctionDetail struct {
    Auction        *model.Auction `json:"auction"`
    SellerUsername string         `json:"seller_username,omitempty"`
}

// Detail loads an auction together with its seller's username.  A
// seller without a local user row (accounts live with the external
// identity service) yields an empty username, never an error.
func (s *AuctionService) Detail(ctx context.Context, id uint64) (*AuctionDetail, error) {
    a, err := s.store.GetAuction(ctx, id)
    if err != nil {
        return nil, err
    }
    d := &AuctionDetail{Auction: a}
    seller, err := s.store.GetUser(ctx, a.SellerID)
    switch {
    case err == nil:
        d.SellerUsername = seller.Username
    case errors.Is(err, repository.ErrUserNotFound):
        // display data only, the listing stands on its own
    default:
        return nil, err
    }
    return d, nil
}

// List returns auctions matching the filter, newest first.
func (s *AuctionService) List(ctx context.Context, f repository.AuctionFilter) ([]model.Auction, error) {
    return s.store.ListAuctions(ctx, f)
}
