package usecase

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"staking/domain"
	"staking/interface/exporter"
)

type stagedRecord struct {
	key solana.PublicKey
	rec domain.Record
}

type stagedDelete struct {
	key  solana.PublicKey
	kind domain.AccountKind
}

// session carries one operation. It reads the clock once, remembers the
// revision of everything it loads and keeps working copies of the token
// accounts it moves tokens between. Nothing reaches the store before commit.
type session struct {
	ctx   context.Context
	store Store
	op    string
	now   int64

	revisions map[solana.PublicKey]uint64
	tokens    map[solana.PublicKey]*domain.TokenAccount
	// Token accounts in the order they were first changed.
	dirty  []solana.PublicKey
	closed map[solana.PublicKey]bool

	records   []stagedRecord
	deletes   []stagedDelete
	movements []domain.Movement
	rewards   *domain.RewardSplit
}

func newSession(ctx context.Context, store Store, clock Clock, op string) *session {
	return &session{
		ctx:       ctx,
		store:     store,
		op:        op,
		now:       clock.Now(),
		revisions: make(map[solana.PublicKey]uint64),
		tokens:    make(map[solana.PublicKey]*domain.TokenAccount),
		closed:    make(map[solana.PublicKey]bool),
	}
}

// run executes fn and commits what it staged. Any error leaves the store
// untouched.
func (s *session) run(fn func() error) (*Receipt, error) {
	err := fn()
	if err == nil {
		err = s.commit()
	}
	if err != nil {
		exporter.IncErrorCount(domain.KindOf(err).String())
		log.WithFields(logrus.Fields{
			"op":   s.op,
			"kind": domain.KindOf(err).String(),
		}).Warnf("🔴 operation rejected - %v", err)
		return nil, err
	}

	exporter.IncOperationCount(s.op)
	if s.rewards != nil {
		exporter.AddRewardDistributed(s.rewards.Operator + s.rewards.Stakers)
	}
	log.WithFields(logrus.Fields{
		"op":        s.op,
		"movements": len(s.movements),
	}).Debug("🔵 operation committed")

	return &Receipt{
		Operation: s.op,
		Time:      s.now,
		Movements: s.movements,
		Rewards:   s.rewards,
	}, nil
}

// load reads the record at key and remembers its revision.
func (s *session) load(key solana.PublicKey, rec record) error {
	account, err := get(s.ctx, s.store, key, rec)
	if err != nil {
		return err
	}
	s.revisions[key] = account.Revision
	return nil
}

// absent checks that nothing is stored at key yet.
func (s *session) absent(key solana.PublicKey) error {
	account, err := s.store.Get(s.ctx, key)
	if err != nil {
		return errors.Wrapf(err, "reading %s", key)
	}
	if account != nil {
		return errors.Wrapf(domain.ErrorAlreadyInitialized, "%s holds a %s", key, account.Kind)
	}
	s.revisions[key] = 0
	return nil
}

// unused checks that no record of kind references ref.
func (s *session) unused(kind domain.AccountKind, ref solana.PublicKey) error {
	account, err := s.store.FindByIndex(s.ctx, kind, ref)
	if err != nil {
		return errors.Wrapf(err, "looking up %s by %s", kind, ref)
	}
	if account != nil {
		return errors.Wrapf(domain.ErrorCustodyInUse, "%s is used by %s", ref, account.Key)
	}
	return nil
}

// token returns the working copy of the token account at key.
func (s *session) token(key solana.PublicKey) (*domain.TokenAccount, error) {
	if s.closed[key] {
		return nil, errors.Wrapf(domain.ErrorNotInitialized, "token account %s is closed", key)
	}
	if t, ok := s.tokens[key]; ok {
		return t, nil
	}

	t := &domain.TokenAccount{}
	if err := s.load(key, t); err != nil {
		return nil, err
	}
	if t.State == domain.TokenAccountUninitialized {
		return nil, errors.Wrapf(domain.ErrorNotInitialized, "token account %s", key)
	}
	s.tokens[key] = t
	return t, nil
}

// provision stages a new token account at key.
func (s *session) provision(key solana.PublicKey, t *domain.TokenAccount) error {
	if err := s.absent(key); err != nil {
		return err
	}
	s.tokens[key] = t
	s.touch(key)
	return nil
}

func (s *session) touch(key solana.PublicKey) {
	for _, k := range s.dirty {
		if k == key {
			return
		}
	}
	s.dirty = append(s.dirty, key)
}

func (s *session) put(key solana.PublicKey, rec domain.Record) {
	s.records = append(s.records, stagedRecord{key: key, rec: rec})
}

func (s *session) remove(key solana.PublicKey, kind domain.AccountKind) {
	s.deletes = append(s.deletes, stagedDelete{key: key, kind: kind})
}

// transfer moves amount between two token accounts of the same mint. A zero
// amount moves nothing.
func (s *session) transfer(amount uint64, from, to, authority solana.PublicKey) error {
	if amount == 0 {
		return nil
	}
	source, err := s.token(from)
	if err != nil {
		return err
	}
	destination, err := s.token(to)
	if err != nil {
		return err
	}

	if !source.Owner.Equals(authority) {
		return errors.Wrapf(domain.ErrorInvalidOwner, "%s is not the owner of %s", authority, from)
	}
	if !source.Mint.Equals(destination.Mint) {
		return errors.Wrapf(domain.ErrorWrongMint, "%s holds %s, %s holds %s", from, source.Mint, to, destination.Mint)
	}
	if source.IsFrozen() || destination.IsFrozen() {
		return errors.Wrapf(domain.ErrorInvalidTokenAccountState, "transfer %s -> %s", from, to)
	}
	if source.Amount < amount {
		return errors.Wrapf(domain.ErrorInsufficientFunds, "%s holds %d, %d requested", from, source.Amount, amount)
	}
	if destination.Amount > ^uint64(0)-amount {
		return errors.Wrapf(domain.ErrorOverflow, "crediting %d to %s", amount, to)
	}

	source.Amount -= amount
	destination.Amount += amount
	s.touch(from)
	s.touch(to)
	s.movements = append(s.movements, domain.Transfer(amount, from, to, authority))
	return nil
}

// closeToken removes an empty token account.
func (s *session) closeToken(account, destination, authority solana.PublicKey) error {
	t, err := s.token(account)
	if err != nil {
		return err
	}
	if _, err := s.token(destination); err != nil {
		return err
	}
	if !t.Owner.Equals(authority) {
		return errors.Wrapf(domain.ErrorInvalidOwner, "%s is not the owner of %s", authority, account)
	}
	if t.Amount != 0 {
		return errors.Wrapf(domain.ErrorNonEmptyAccount, "%s holds %d", account, t.Amount)
	}

	s.closed[account] = true
	s.movements = append(s.movements, domain.Close(account, destination, authority))
	return nil
}

// commit writes every staged record and every changed token account in one
// changeset.
func (s *session) commit() error {
	changes := &domain.Changeset{Movements: s.movements}

	for _, staged := range s.records {
		if err := changes.Put(staged.key, staged.rec, s.revisions[staged.key]); err != nil {
			return err
		}
	}
	for _, key := range s.dirty {
		if s.closed[key] {
			continue
		}
		if err := changes.Put(key, s.tokens[key], s.revisions[key]); err != nil {
			return err
		}
	}
	for key := range s.closed {
		changes.Delete(key, domain.AccountToken, s.revisions[key])
	}
	for _, staged := range s.deletes {
		changes.Delete(staged.key, staged.kind, s.revisions[staged.key])
	}

	if changes.IsEmpty() {
		return nil
	}
	if err := s.store.Apply(s.ctx, changes); err != nil {
		return errors.Wrap(err, s.op)
	}
	return nil
}
