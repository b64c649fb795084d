package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/behrang/sqlbatch"
	"github.com/gagliardetto/solana-go"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staking/domain"
)

// recordingHandler keeps every batch it is given and answers the way sqlbatch
// does: ReadOne runs only when a row comes back, and a command with Affect
// set fails the batch when its canned affected count differs.
type recordingHandler struct {
	opts     []*sql.TxOptions
	batches  [][]sqlbatch.Command
	rows     [][]interface{}
	affected map[int]int64
	err      error
}

func (h *recordingHandler) Batch(_ context.Context, opts *sql.TxOptions, commands []sqlbatch.Command) ([]interface{}, error) {
	h.opts = append(h.opts, opts)
	h.batches = append(h.batches, commands)
	if h.err != nil {
		return nil, h.err
	}

	results := make([]interface{}, len(commands))
	for i, c := range commands {
		switch {
		case c.Affect != 0:
			affected, ok := h.affected[i]
			if !ok {
				affected = c.Affect
			}
			if affected != c.Affect {
				return results, fmt.Errorf("Expected to affect %v rows, but %v rows affected for query: `%v`", c.Affect, affected, c.Query)
			}
		case c.ReadOne != nil:
			if len(h.rows) > 0 {
				result, err := c.ReadOne(scanner(h.rows[0]))
				if err != nil {
					return results, err
				}
				results[i] = result
			}
		case c.ReadAll != nil:
			memo := c.Init
			for _, row := range h.rows {
				var err error
				if memo, err = c.ReadAll(memo, scanner(row)); err != nil {
					return results, err
				}
			}
			results[i] = memo
		}
	}
	return results, nil
}

func scanner(row []interface{}) func(...interface{}) error {
	return func(dest ...interface{}) error {
		for i := range dest {
			switch d := dest[i].(type) {
			case *[]byte:
				if row[i] == nil {
					*d = nil
				} else {
					*d = row[i].([]byte)
				}
			case *string:
				*d = row[i].(string)
			case *int64:
				*d = row[i].(int64)
			}
		}
		return nil
	}
}

func TestAccountRepository_Get(t *testing.T) {
	key := solana.NewWallet().PublicKey()
	ref := solana.NewWallet().PublicKey()
	handler := &recordingHandler{
		rows: [][]interface{}{{key[:], "stake_account", int64(4), ref[:], []byte{9, 9}}},
	}
	repo := NewAccountRepository(handler)

	account, err := repo.Get(context.Background(), key)
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, key, account.Key)
	assert.Equal(t, domain.AccountStakeAccount, account.Kind)
	assert.Equal(t, uint64(4), account.Revision)
	require.NotNil(t, account.Ref)
	assert.Equal(t, ref, *account.Ref)
	assert.Equal(t, []byte{9, 9}, account.Data)

	require.Len(t, handler.batches, 1)
	assert.Equal(t, sqlAccountFind, handler.batches[0][0].Query)
	assert.Equal(t, []interface{}{key[:]}, handler.batches[0][0].Args)
	assert.True(t, handler.opts[0].ReadOnly)
}

func TestAccountRepository_GetMissing(t *testing.T) {
	repo := NewAccountRepository(&recordingHandler{})

	account, err := repo.Get(context.Background(), solana.NewWallet().PublicKey())
	require.NoError(t, err)
	assert.Nil(t, account)
}

func TestAccountRepository_ApplyCommands(t *testing.T) {
	handler := &recordingHandler{}
	repo := NewAccountRepository(handler)

	created := solana.NewWallet().PublicKey()
	updated := solana.NewWallet().PublicKey()
	deleted := solana.NewWallet().PublicKey()
	custody := solana.NewWallet().PublicKey()

	changes := &domain.Changeset{}
	require.NoError(t, changes.Put(created, domain.NewStakeAccount(created, custody, nil), 0))
	require.NoError(t, changes.Put(updated, &domain.StakePool{Name: "pool"}, 3))
	changes.Delete(deleted, domain.AccountToken, 2)

	require.NoError(t, repo.Apply(context.Background(), changes))

	require.Len(t, handler.batches, 1)
	commands := handler.batches[0]
	require.Len(t, commands, 3)
	assert.Equal(t, sql.LevelSerializable, handler.opts[0].Isolation)

	assert.Equal(t, sqlAccountInsert, commands[0].Query)
	assert.Equal(t, created[:], commands[0].Args[0])
	assert.Equal(t, "stake_account", commands[0].Args[1])
	assert.Equal(t, custody[:], commands[0].Args[2])

	assert.Equal(t, sqlAccountUpdate, commands[1].Query)
	assert.Equal(t, int64(3), commands[1].Args[2])
	assert.Nil(t, commands[1].Args[3])

	assert.Equal(t, sqlAccountDelete, commands[2].Query)
	assert.Equal(t, []interface{}{deleted[:], "token_account", int64(2)}, commands[2].Args)
}

func TestAccountRepository_ApplyGuardsEveryWrite(t *testing.T) {
	handler := &recordingHandler{}
	changes := &domain.Changeset{}
	require.NoError(t, changes.Put(solana.NewWallet().PublicKey(), &domain.StakePool{}, 0))
	require.NoError(t, changes.Put(solana.NewWallet().PublicKey(), &domain.StakePool{}, 7))
	changes.Delete(solana.NewWallet().PublicKey(), domain.AccountToken, 1)

	require.NoError(t, NewAccountRepository(handler).Apply(context.Background(), changes))
	for _, c := range handler.batches[0] {
		assert.Equal(t, int64(1), c.Affect, c.Query)
		assert.Nil(t, c.ReadOne, c.Query)
	}
}

func TestAccountRepository_ApplyStaleUpdate(t *testing.T) {
	changes := &domain.Changeset{}
	require.NoError(t, changes.Put(solana.NewWallet().PublicKey(), domain.NewStakeAccount(solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), nil), 0))
	require.NoError(t, changes.Put(solana.NewWallet().PublicKey(), &domain.StakePool{}, 5))

	handler := &recordingHandler{affected: map[int]int64{1: 0}}
	err := NewAccountRepository(handler).Apply(context.Background(), changes)
	assert.ErrorIs(t, err, domain.ErrorRevisionConflict)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestAccountRepository_ApplyStaleDelete(t *testing.T) {
	changes := &domain.Changeset{}
	require.NoError(t, changes.Put(solana.NewWallet().PublicKey(), &domain.StakePool{}, 2))
	changes.Delete(solana.NewWallet().PublicKey(), domain.AccountToken, 3)

	handler := &recordingHandler{affected: map[int]int64{1: 0}}
	err := NewAccountRepository(handler).Apply(context.Background(), changes)
	assert.ErrorIs(t, err, domain.ErrorRevisionConflict)
}

func TestAccountRepository_ApplyDuplicateInsert(t *testing.T) {
	changes := &domain.Changeset{}
	require.NoError(t, changes.Put(solana.NewWallet().PublicKey(), &domain.StakePool{}, 3))
	require.NoError(t, changes.Put(solana.NewWallet().PublicKey(), &domain.StakePool{}, 0))

	handler := &recordingHandler{affected: map[int]int64{1: 0}}
	err := NewAccountRepository(handler).Apply(context.Background(), changes)
	assert.ErrorIs(t, err, domain.ErrorAlreadyInitialized)
}

func TestAccountRepository_ApplyDriverErrors(t *testing.T) {
	changes := &domain.Changeset{}
	require.NoError(t, changes.Put(solana.NewWallet().PublicKey(), &domain.StakePool{}, 1))

	repo := NewAccountRepository(&recordingHandler{err: &pq.Error{Code: "23505"}})
	err := repo.Apply(context.Background(), changes)
	assert.ErrorIs(t, err, domain.ErrorCustodyInUse)

	boom := errors.New("connection reset")
	repo = NewAccountRepository(&recordingHandler{err: boom})
	err = repo.Apply(context.Background(), changes)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, domain.KindUnknown, domain.KindOf(err))
}

func TestAccountRepository_List(t *testing.T) {
	a := solana.NewWallet().PublicKey()
	b := solana.NewWallet().PublicKey()
	handler := &recordingHandler{
		rows: [][]interface{}{
			{a[:], "stake_pool", int64(1), nil, []byte{}},
			{b[:], "stake_pool", int64(2), nil, []byte{}},
		},
	}
	repo := NewAccountRepository(handler)

	accounts, err := repo.List(context.Background(), domain.AccountStakePool)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, a, accounts[0].Key)
	assert.Nil(t, accounts[0].Ref)
	assert.Equal(t, b, accounts[1].Key)
	assert.Equal(t, []interface{}{"stake_pool"}, handler.batches[0][0].Args)
}

func TestAccountRepository_Migrate(t *testing.T) {
	handler := &recordingHandler{}
	require.NoError(t, NewAccountRepository(handler).Migrate(context.Background()))
	require.Len(t, handler.batches[0], 3)
	assert.Equal(t, sqlAccountCreateTable, handler.batches[0][0].Query)
}
