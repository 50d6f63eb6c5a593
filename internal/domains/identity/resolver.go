package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrOwnerConflict được repository trả về khi INSERT vi phạm unique index
// của owner (active_user_cart, active_guest_cart, ...): một request song song
// vừa tạo aggregate cho cùng owner.
var ErrOwnerConflict = errors.New("identity: owner already has an active aggregate")

// Owner mô tả owner của aggregate sắp được tạo
type Owner struct {
	UserID     *uuid.UUID
	GuestToken *uuid.UUID
	ExpiresAt  time.Time
}

// Store là phần persistence mà Resolver cần.
// Find* trả về (nil, nil) khi không tìm thấy.
type Store[T any] interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*T, error)
	FindByGuestToken(ctx context.Context, token uuid.UUID) (*T, error)
	Create(ctx context.Context, owner Owner) (*T, error)
}

// Policy quyết định thời hạn của aggregate mới tạo
type Policy struct {
	UserExpiry  time.Duration
	GuestExpiry time.Duration
}

// Resolution là kết quả resolve: aggregate + guest token phải trả lại client
// (nil với user đã đăng nhập)
type Resolution[T any] struct {
	Value      *T
	GuestToken *uuid.UUID
	Created    bool
}

// Resolver tìm hoặc tạo aggregate cho một Identity
type Resolver[T any] struct {
	store  Store[T]
	policy Policy
	now    func() time.Time
	newID  func() uuid.UUID
}

func NewResolver[T any](store Store[T], policy Policy) *Resolver[T] {
	return &Resolver[T]{
		store:  store,
		policy: policy,
		now:    time.Now,
		newID:  uuid.New,
	}
}

// Resolve:
//  1. UserID → aggregate của user, tạo mới nếu chưa có (guest token bị bỏ qua)
//  2. GuestToken → aggregate đúng token đó; không thấy thì coi như token không hợp lệ
//  3. Còn lại → sinh guest token mới và tạo aggregate
//
// Owner của aggregate đã tồn tại không bao giờ bị thay đổi.
func (r *Resolver[T]) Resolve(ctx context.Context, id Identity) (*Resolution[T], error) {
	if id.UserID != nil {
		userID := *id.UserID
		found, err := r.store.FindByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("find by user: %w", err)
		}
		if found != nil {
			return &Resolution[T]{Value: found}, nil
		}

		created, err := r.create(ctx, Owner{
			UserID:    &userID,
			ExpiresAt: r.now().Add(r.policy.UserExpiry),
		}, func() (*T, error) { return r.store.FindByUser(ctx, userID) })
		if err != nil {
			return nil, err
		}
		return &Resolution[T]{Value: created, Created: true}, nil
	}

	if id.GuestToken != nil {
		token := *id.GuestToken
		found, err := r.store.FindByGuestToken(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("find by guest token: %w", err)
		}
		if found != nil {
			return &Resolution[T]{Value: found, GuestToken: &token}, nil
		}
		// Token lạ hoặc aggregate đã hết hạn: cấp token mới
	}

	token := r.newID()
	created, err := r.create(ctx, Owner{
		GuestToken: &token,
		ExpiresAt:  r.now().Add(r.policy.GuestExpiry),
	}, func() (*T, error) { return r.store.FindByGuestToken(ctx, token) })
	if err != nil {
		return nil, err
	}
	return &Resolution[T]{Value: created, GuestToken: &token, Created: true}, nil
}

// Find chỉ lookup, không tạo. Identity rỗng hoặc không tìm thấy → nil.
func (r *Resolver[T]) Find(ctx context.Context, id Identity) (*T, error) {
	switch {
	case id.UserID != nil:
		found, err := r.store.FindByUser(ctx, *id.UserID)
		if err != nil {
			return nil, fmt.Errorf("find by user: %w", err)
		}
		return found, nil
	case id.GuestToken != nil:
		found, err := r.store.FindByGuestToken(ctx, *id.GuestToken)
		if err != nil {
			return nil, fmt.Errorf("find by guest token: %w", err)
		}
		return found, nil
	default:
		return nil, nil
	}
}

// create gọi Store.Create; khi đụng unique index thì re-fetch bản ghi
// mà request song song đã tạo.
func (r *Resolver[T]) create(ctx context.Context, owner Owner, refetch func() (*T, error)) (*T, error) {
	created, err := r.store.Create(ctx, owner)
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, ErrOwnerConflict) {
		return nil, fmt.Errorf("create: %w", err)
	}

	existing, ferr := refetch()
	if ferr != nil {
		return nil, fmt.Errorf("refetch after conflict: %w", ferr)
	}
	if existing == nil {
		return nil, fmt.Errorf("refetch after conflict: %w", err)
	}
	return existing, nil
}
