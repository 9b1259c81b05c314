package user

import (
	c "accounts/internal/core/domain/common"
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"
)

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}

// FakeTokenGenerator returns Tokens one by one and then keeps repeating the
// last one.
type FakeTokenGenerator struct {
	Tokens    []TokenValue
	generated int
	lock      sync.Mutex
}

func NewFakeTokenGenerator(tokens ...string) *FakeTokenGenerator {
	g := &FakeTokenGenerator{}
	for _, t := range tokens {
		g.Tokens = append(g.Tokens, TokenValue(t))
	}
	return g
}

func (g *FakeTokenGenerator) GenerateToken() TokenValue {
	g.lock.Lock()
	defer g.lock.Unlock()
	if len(g.Tokens) == 0 {
		panic("FakeTokenGenerator has no tokens.")
	}
	ix := g.generated
	if ix >= len(g.Tokens) {
		ix = len(g.Tokens) - 1
	}
	g.generated++
	return g.Tokens[ix]
}

type FakeSessionTokenGenerator struct {
	Token string
}

func NewFakeSessionTokenGenerator(token string) *FakeSessionTokenGenerator {
	return &FakeSessionTokenGenerator{Token: token}
}

func (g *FakeSessionTokenGenerator) GenerateToken() SessionToken {
	return SessionToken(g.Token)
}

type FakeUserRepository struct {
	Users       []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10)}
}

func (r *FakeUserRepository) Create(ctx context.Context, input CreateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not create user %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	maxID := ID(0)
	for _, u := range r.Users {
		if !u.IsDeleted && u.Email == input.Email {
			return u, ErrEmailAlreadyExists
		}
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	status := input.Status
	if status == "" {
		status = StatusUnverified
	}
	u = User{
		ID:           maxID + 1,
		Email:        input.Email,
		DisplayName:  input.DisplayName,
		PasswordHash: input.PasswordHash,
		Status:       status,
		Token:        input.Token,
		CreatedAt:    input.CreatedAt,
		UpdatedAt:    input.CreatedAt,
	}
	r.Users = append(r.Users, u)
	return u, nil
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id ID) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	ix, ok := r.find(id)
	if !ok {
		return u, ErrUserDoesNotExist
	}
	return r.Users[ix], nil
}

func (r *FakeUserRepository) GetByEmail(ctx context.Context, email c.Email) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %s", email)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if !u.IsDeleted && u.Email == email {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) Update(ctx context.Context, input UpdateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not update user %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	ix, ok := r.find(input.ID)
	if !ok {
		return u, ErrUserDoesNotExist
	}
	if input.DoDisplayNameUpdate {
		r.Users[ix].DisplayName = input.DisplayName
	}
	r.Users[ix].UpdatedAt = input.At
	return r.Users[ix], nil
}

func (r *FakeUserRepository) SetToken(ctx context.Context, input SetTokenInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not set token for user %d", input.ID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	ix, ok := r.find(input.ID)
	if !ok {
		return u, ErrUserDoesNotExist
	}
	r.Users[ix].Token = c.Some(input.Token)
	r.Users[ix].UpdatedAt = input.At
	return r.Users[ix], nil
}

func (r *FakeUserRepository) ConsumeToken(ctx context.Context, input ConsumeTokenInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not consume token of user %d", input.ID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	ix, ok := r.find(input.ID)
	if !ok {
		return u, ErrInvalidToken
	}
	if err := r.Users[ix].CheckToken(input.Value, input.Purpose, input.At); err != nil {
		return u, ErrInvalidToken
	}
	if input.Activate {
		r.Users[ix].Status = StatusActive
	}
	if input.PasswordHash.IsPresent {
		r.Users[ix].PasswordHash = input.PasswordHash.Value
	}
	r.Users[ix].Token = c.None[Token]()
	r.Users[ix].UpdatedAt = input.At
	return r.Users[ix], nil
}

func (r *FakeUserRepository) ClearToken(ctx context.Context, input ClearTokenInput) error {
	if r.ReturnError {
		return fmt.Errorf("could not clear token of user %d", input.ID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	ix, ok := r.find(input.ID)
	if !ok {
		return ErrUserDoesNotExist
	}
	if r.Users[ix].Token.IsPresent && r.Users[ix].Token.Value.Purpose == input.Purpose {
		r.Users[ix].Token = c.None[Token]()
		r.Users[ix].UpdatedAt = input.At
	}
	return nil
}

func (r *FakeUserRepository) SetPassword(ctx context.Context, input SetPasswordInput) error {
	if r.ReturnError {
		return fmt.Errorf("could not set password of user %d", input.ID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	ix, ok := r.find(input.ID)
	if !ok {
		return ErrUserDoesNotExist
	}
	r.Users[ix].PasswordHash = input.PasswordHash
	r.Users[ix].UpdatedAt = input.At
	return nil
}

func (r *FakeUserRepository) Delete(ctx context.Context, id ID, at time.Time) error {
	if r.ReturnError {
		return fmt.Errorf("could not delete user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	ix, ok := r.find(id)
	if !ok {
		return ErrUserDoesNotExist
	}
	r.Users[ix].IsDeleted = true
	r.Users[ix].UpdatedAt = at
	return nil
}

func (r *FakeUserRepository) find(id ID) (int, bool) {
	for ix, u := range r.Users {
		if u.ID == id && !u.IsDeleted {
			return ix, true
		}
	}
	return 0, false
}

type FakeSessionRepository struct {
	UserIdByToken  map[SessionToken]ID
	UserRepository UserRepository
	ReturnError    bool
	lock           sync.Mutex
}

func NewFakeSessionRepository(userRepository UserRepository) *FakeSessionRepository {
	return &FakeSessionRepository{
		UserIdByToken:  make(map[SessionToken]ID),
		UserRepository: userRepository,
	}
}

func (r *FakeSessionRepository) Create(ctx context.Context, input CreateSessionInput) error {
	if r.ReturnError {
		return fmt.Errorf("could not create session %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.UserIdByToken[input.Token] = input.UserID
	return nil
}

func (r *FakeSessionRepository) GetUserByToken(ctx context.Context, token SessionToken) (u User, err error) {
	r.lock.Lock()
	userId, ok := r.UserIdByToken[token]
	r.lock.Unlock()
	if !ok {
		return u, ErrUserDoesNotExist
	}
	return r.UserRepository.GetByID(ctx, userId)
}

func (r *FakeSessionRepository) Delete(ctx context.Context, token SessionToken) (ID, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	userID, ok := r.UserIdByToken[token]
	if !ok {
		return ID(0), ErrSessionDoesNotExist
	}
	delete(r.UserIdByToken, token)
	return userID, nil
}

// FakeTokenEnvelope seals tokens into a readable "<id>.<purpose>.<value>" form.
type FakeTokenEnvelope struct {
	ReturnError bool
}

func NewFakeTokenEnvelope() *FakeTokenEnvelope {
	return &FakeTokenEnvelope{}
}

func (e *FakeTokenEnvelope) Seal(userID ID, token Token) (SealedToken, error) {
	if e.ReturnError {
		return "", fmt.Errorf("could not seal token")
	}
	return SealedToken(fmt.Sprintf("%d.%s.%s", userID, token.Purpose, string(token.Value))), nil
}

func (e *FakeTokenEnvelope) Open(sealed SealedToken) (o OpenedToken, err error) {
	parts := strings.SplitN(string(sealed), ".", 3)
	if len(parts) != 3 {
		return o, ErrInvalidToken
	}
	rawID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return o, ErrInvalidToken
	}
	purpose := Purpose(parts[1])
	if !purpose.IsValid() {
		return o, ErrInvalidToken
	}
	return OpenedToken{UserID: ID(rawID), Purpose: purpose, Value: TokenValue(parts[2])}, nil
}

type FakeTokenSender struct {
	Sent        []TokenNotification
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeTokenSender() *FakeTokenSender {
	return &FakeTokenSender{}
}

func (s *FakeTokenSender) SendToken(ctx context.Context, notification TokenNotification) error {
	if s.ReturnError {
		return fmt.Errorf("could not send token to user %d", notification.UserID)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, notification)
	return nil
}

func (s *FakeTokenSender) SentCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Sent)
}

func (s *FakeTokenSender) LastSent() TokenNotification {
	s.lock.Lock()
	defer s.lock.Unlock()
	l := len(s.Sent)
	if l == 0 {
		panic("Sent count is 0.")
	}
	return s.Sent[l-1]
}

type FakeEventPublisher struct {
	Published   []Event
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeEventPublisher() *FakeEventPublisher {
	return &FakeEventPublisher{}
}

func (p *FakeEventPublisher) PublishEvent(ctx context.Context, event Event) error {
	if p.ReturnError {
		return fmt.Errorf("could not publish event %v", event)
	}
	p.lock.Lock()
	defer p.lock.Unlock()
	p.Published = append(p.Published, event)
	return nil
}
