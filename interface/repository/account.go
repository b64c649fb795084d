package repository

import (
	"context"
	"strings"

	"github.com/behrang/sqlbatch"
	"github.com/gagliardetto/solana-go"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"staking/domain"
)

const (
	sqlAccountCreateTable = `
	create table if not exists accounts (
		key         bytea primary key,
		kind        text not null,
		revision    bigint not null,
		ref         bytea,
		data        bytea not null,
		create_time timestamptz not null default now(),
		update_time timestamptz not null default now()
	)
`

	sqlAccountCreateRefIndex = `
	create unique index if not exists accounts_kind_ref on accounts (kind, ref) where ref is not null
`

	sqlAccountCreateKindIndex = `
	create index if not exists accounts_kind on accounts (kind)
`

	sqlAccountFind = `
	select
		key, kind, revision, ref, data
	from accounts
	where key = $1
`

	sqlAccountFindByRef = `
	select
		key, kind, revision, ref, data
	from accounts
	where kind = $1 and ref = $2
`

	sqlAccountFindAllByKind = `
	select
		key, kind, revision, ref, data
	from accounts
	where kind = $1
	order by key
`

	sqlAccountInsert = `
	insert into accounts as a (
			key, kind, revision, ref, data, create_time, update_time
		)
		values (
			$1, $2, 1, $3, $4, now(), now()
		)
	on conflict (key) do nothing
`

	sqlAccountUpdate = `
	update accounts
		set revision = revision + 1, ref = $4, data = $5, update_time = now()
	where key = $1 and kind = $2 and revision = $3
`

	sqlAccountDelete = `
	delete from accounts
	where key = $1 and kind = $2 and revision = $3
`
)

// AccountRepository keeps ledger accounts in Postgres.
type AccountRepository struct {
	batchHandler BatchHandler
}

func NewAccountRepository(db BatchHandler) *AccountRepository {
	return &AccountRepository{batchHandler: db}
}

func scanAccount(scan func(...interface{}) error) (*domain.Account, error) {
	var key, ref []byte
	var kind string
	var revision int64
	a := &domain.Account{}
	if err := scan(&key, &kind, &revision, &ref, &a.Data); err != nil {
		return nil, err
	}
	a.Key = solana.PublicKeyFromBytes(key)
	a.Kind = domain.AccountKind(kind)
	a.Revision = uint64(revision)
	if ref != nil {
		r := solana.PublicKeyFromBytes(ref)
		a.Ref = &r
	}
	return a, nil
}

func readAllAccounts(memo interface{}, scan func(...interface{}) error) (interface{}, error) {
	a, err := scanAccount(scan)
	list := memo.([]*domain.Account)
	if err == nil {
		list = append(list, a)
	}
	return list, err
}

// sqlbatch fails a command whose affected row count differs from Affect with
// an error starting with this text and ending with the query.
const affectedRowsMismatch = "Expected to affect"

// guardMissed reports whether a guarded write matched no row, and whether that
// write was an insert.
func guardMissed(err error) (missed bool, insert bool) {
	msg := errors.Cause(err).Error()
	if !strings.HasPrefix(msg, affectedRowsMismatch) {
		return false, false
	}
	return true, strings.HasSuffix(msg, "`"+sqlAccountInsert+"`")
}

func refArg(ref *solana.PublicKey) interface{} {
	if ref == nil {
		return nil
	}
	return ref[:]
}

func (repo *AccountRepository) findOne(ctx context.Context, query string, args ...interface{}) (*domain.Account, error) {
	results, err := repo.batchHandler.Batch(ctx, &BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   query,
			Args:    args,
			Init:    make([]*domain.Account, 0),
			ReadAll: readAllAccounts,
		},
	})
	if err != nil {
		return nil, err
	}
	result, _ := results[0].([]*domain.Account)
	if len(result) == 0 {
		return nil, nil
	}
	return result[0], nil
}

func (repo *AccountRepository) Get(ctx context.Context, key solana.PublicKey) (*domain.Account, error) {
	return repo.findOne(ctx, sqlAccountFind, key[:])
}

func (repo *AccountRepository) FindByIndex(ctx context.Context, kind domain.AccountKind, ref solana.PublicKey) (*domain.Account, error) {
	return repo.findOne(ctx, sqlAccountFindByRef, string(kind), ref[:])
}

func (repo *AccountRepository) List(ctx context.Context, kind domain.AccountKind) ([]*domain.Account, error) {
	results, err := repo.batchHandler.Batch(ctx, &BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlAccountFindAllByKind,
			Args:    []interface{}{string(kind)},
			Init:    make([]*domain.Account, 0),
			ReadAll: readAllAccounts,
		},
	})
	if err != nil {
		return nil, err
	}
	result, _ := results[0].([]*domain.Account)
	return result, nil
}

// Apply writes the changeset in one serializable transaction. Every write is
// guarded by the revision it was read at and must affect exactly one row, so a
// missed guard fails the batch and rolls the whole changeset back.
func (repo *AccountRepository) Apply(ctx context.Context, changes *domain.Changeset) error {
	commands := make([]sqlbatch.Command, 0, len(changes.Upserts)+len(changes.Deletes))

	for _, a := range changes.Upserts {
		if a.Revision == 0 {
			commands = append(commands, sqlbatch.Command{
				Query:  sqlAccountInsert,
				Args:   []interface{}{a.Key[:], string(a.Kind), refArg(a.Ref), a.Data},
				Affect: 1,
			})
			continue
		}
		commands = append(commands, sqlbatch.Command{
			Query:  sqlAccountUpdate,
			Args:   []interface{}{a.Key[:], string(a.Kind), int64(a.Revision), refArg(a.Ref), a.Data},
			Affect: 1,
		})
	}
	for _, a := range changes.Deletes {
		commands = append(commands, sqlbatch.Command{
			Query:  sqlAccountDelete,
			Args:   []interface{}{a.Key[:], string(a.Kind), int64(a.Revision)},
			Affect: 1,
		})
	}

	_, err := repo.batchHandler.Batch(ctx, &BatchOptionSerializable, commands)
	if err == nil {
		return nil
	}
	if missed, insert := guardMissed(err); missed {
		if insert {
			return errors.Wrap(domain.ErrorAlreadyInitialized, "applying changeset")
		}
		return errors.Wrap(domain.ErrorRevisionConflict, "applying changeset")
	}
	if isUniqueViolation(err) {
		return errors.Wrapf(domain.ErrorCustodyInUse, "applying changeset: %v", err)
	}
	return errors.Wrap(err, "applying changeset")
}

// Migrate creates the accounts table and its indexes.
func (repo *AccountRepository) Migrate(ctx context.Context) error {
	_, err := repo.batchHandler.Batch(ctx, &BatchOptionNormal, []sqlbatch.Command{
		{Query: sqlAccountCreateTable},
		{Query: sqlAccountCreateRefIndex},
		{Query: sqlAccountCreateKindIndex},
	})
	return errors.Wrap(err, "migrating accounts")
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
