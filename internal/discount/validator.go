package discount

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/athenareborn/pokemyheart-store/internal/models"
	"github.com/athenareborn/pokemyheart-store/internal/store"
	"github.com/bits-and-blooms/bloom/v3"
	"golang.org/x/sync/singleflight"
)

var (
	ErrMalformedCode       = errors.New("discount code must be 3-32 characters of A-Z, 0-9, '_' or '-'")
	ErrDiscountNotFound    = errors.New("discount code not found")
	ErrDiscountUnavailable = errors.New("discount code is inactive or expired")
	ErrDuplicateCode       = errors.New("discount code already exists")
	ErrInvalidPercent      = errors.New("percentOff must be between 1 and 100")
)

var codePattern = regexp.MustCompile(`^[A-Z0-9_-]{3,32}$`)

const (
	expectedCodes     = 10000
	falsePositiveRate = 0.01

	// DefaultRefreshInterval bounds how long a code created on another
	// replica can be rejected by this replica's filter.
	DefaultRefreshInterval = 30 * time.Second

	// refreshKey cannot collide with a normalized code.
	refreshKey = "#refresh"
)

// Store is the persistence the validator needs
type Store interface {
	CreateDiscount(ctx context.Context, d models.Discount) error
	GetDiscount(ctx context.Context, code string) (*models.Discount, error)
	ListDiscountCodes(ctx context.Context) ([]string, error)
}

// Validator checks discount codes. A bloom filter of known codes answers
// most unknown-code lookups without touching the store. A miss on a filter
// older than the refresh interval reloads it before the code is rejected.
type Validator struct {
	store        Store
	filter       *bloom.BloomFilter
	loaded       int
	refreshedAt  time.Time
	refreshEvery time.Duration
	mu           sync.RWMutex
	group        singleflight.Group
	now          func() time.Time
}

func NewValidator(s Store) *Validator {
	return &Validator{
		store:        s,
		filter:       bloom.NewWithEstimates(expectedCodes, falsePositiveRate),
		refreshEvery: DefaultRefreshInterval,
		now:          time.Now,
	}
}

// Normalize trims and upper-cases a code and checks its shape.
func Normalize(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !codePattern.MatchString(code) {
		return "", ErrMalformedCode
	}
	return code, nil
}

// Load seeds the filter with every code in the store.
func (v *Validator) Load(ctx context.Context) error {
	codes, err := v.store.ListDiscountCodes(ctx)
	if err != nil {
		return fmt.Errorf("failed to load discount codes: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for _, code := range codes {
		v.filter.AddString(code)
	}
	v.loaded = len(codes)
	v.refreshedAt = v.now()
	return nil
}

func (v *Validator) mightExist(code string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.filter.TestString(code)
}

func (v *Validator) stale() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.now().Sub(v.refreshedAt) >= v.refreshEvery
}

// refresh reloads the filter once per interval no matter how many
// misses arrive together.
func (v *Validator) refresh(ctx context.Context) error {
	_, err, _ := v.group.Do(refreshKey, func() (interface{}, error) {
		if !v.stale() {
			return nil, nil
		}
		return nil, v.Load(ctx)
	})
	return err
}

// Validate returns the discount for code if it can be applied now.
func (v *Validator) Validate(ctx context.Context, code string) (*models.Discount, error) {
	code, err := Normalize(code)
	if err != nil {
		return nil, err
	}

	if !v.mightExist(code) {
		if !v.stale() {
			return nil, ErrDiscountNotFound
		}
		if err := v.refresh(context.WithoutCancel(ctx)); err != nil {
			return nil, err
		}
		if !v.mightExist(code) {
			return nil, ErrDiscountNotFound
		}
	}

	// Shared with every caller waiting on the same code, so the first
	// caller's cancellation must not fail the rest.
	lookupCtx := context.WithoutCancel(ctx)
	res, err, _ := v.group.Do(code, func() (interface{}, error) {
		return v.store.GetDiscount(lookupCtx, code)
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrDiscountNotFound
	}
	if err != nil {
		return nil, err
	}

	d := *res.(*models.Discount)
	if !d.Usable(v.now()) {
		return nil, ErrDiscountUnavailable
	}
	return &d, nil
}

// Create stores a new discount and makes it visible to Validate.
func (v *Validator) Create(ctx context.Context, d models.Discount) (*models.Discount, error) {
	code, err := Normalize(d.Code)
	if err != nil {
		return nil, err
	}
	if d.PercentOff < 1 || d.PercentOff > 100 {
		return nil, ErrInvalidPercent
	}
	d.Code = code

	if err := v.store.CreateDiscount(ctx, d); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateCode
		}
		return nil, err
	}

	v.mu.Lock()
	v.filter.AddString(code)
	v.loaded++
	v.mu.Unlock()

	return &d, nil
}

// GetStats returns statistics about the loaded filter
func (v *Validator) GetStats() map[string]interface{} {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return map[string]interface{}{
		"loaded_codes":     v.loaded,
		"filter_bits":      v.filter.Cap(),
		"filter_hashes":    v.filter.K(),
		"approximate_size": v.filter.ApproximatedSize(),
	}
}
