package boltstore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"staking/domain"
)

var (
	bucketAccounts = []byte("accounts")
	// kind, 0x00, ref -> account key
	bucketAccountIndex = []byte("account_index")
)

// BoltStore keeps ledger accounts in a bbolt database. Every Apply runs in a
// single read-write transaction, so changesets are atomic and serialized.
type BoltStore struct {
	db *bbolt.DB
}

// Open opens or creates the database at dbPath. The parent directory is
// created if it does not exist.
func Open(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, errors.Wrap(err, "boltstore: create directory")
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, errors.Wrap(err, "boltstore: open bolt db")
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketAccounts, bucketAccountIndex} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return errors.Wrapf(err, "boltstore: create bucket %q", name)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error { return s.db.Close() }

func indexKey(kind domain.AccountKind, ref solana.PublicKey) []byte {
	k := make([]byte, 0, len(kind)+1+len(ref))
	k = append(k, kind...)
	k = append(k, 0)
	return append(k, ref[:]...)
}

func decodeAccount(data []byte) (*domain.Account, error) {
	account := &domain.Account{}
	if err := domain.Decode(data, account); err != nil {
		return nil, errors.Wrap(err, "boltstore: decode account")
	}
	return account, nil
}

func readAccount(tx *bbolt.Tx, key solana.PublicKey) (*domain.Account, error) {
	data := tx.Bucket(bucketAccounts).Get(key[:])
	if data == nil {
		return nil, nil
	}
	return decodeAccount(data)
}

func (s *BoltStore) Get(ctx context.Context, key solana.PublicKey) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var account *domain.Account
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		account, err = readAccount(tx, key)
		return err
	})
	return account, err
}

func (s *BoltStore) FindByIndex(ctx context.Context, kind domain.AccountKind, ref solana.PublicKey) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var account *domain.Account
	err := s.db.View(func(tx *bbolt.Tx) error {
		key := tx.Bucket(bucketAccountIndex).Get(indexKey(kind, ref))
		if key == nil {
			return nil
		}
		var err error
		account, err = readAccount(tx, solana.PublicKeyFromBytes(key))
		return err
	})
	return account, err
}

// List returns every account of kind in key order.
func (s *BoltStore) List(ctx context.Context, kind domain.AccountKind) ([]*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketAccounts).ForEach(func(_, data []byte) error {
			account, err := decodeAccount(data)
			if err != nil {
				return err
			}
			if account.Kind == kind {
				accounts = append(accounts, account)
			}
			return nil
		})
	})
	return accounts, err
}

// Apply writes changes in one transaction. Each write must carry the revision
// currently stored, zero meaning the account must not exist yet.
func (s *BoltStore) Apply(ctx context.Context, changes *domain.Changeset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		accounts := tx.Bucket(bucketAccounts)
		index := tx.Bucket(bucketAccountIndex)

		for _, upsert := range changes.Upserts {
			existing, err := readAccount(tx, upsert.Key)
			if err != nil {
				return err
			}
			if err := checkRevision(upsert, existing); err != nil {
				return err
			}

			if existing != nil && existing.Ref != nil {
				if err := index.Delete(indexKey(existing.Kind, *existing.Ref)); err != nil {
					return errors.Wrap(err, "boltstore: delete index")
				}
			}
			if upsert.Ref != nil {
				k := indexKey(upsert.Kind, *upsert.Ref)
				if owner := index.Get(k); owner != nil && !solana.PublicKeyFromBytes(owner).Equals(upsert.Key) {
					return errors.Wrapf(domain.ErrorCustodyInUse, "%s is used by %s", *upsert.Ref, solana.PublicKeyFromBytes(owner))
				}
				if err := index.Put(k, upsert.Key[:]); err != nil {
					return errors.Wrap(err, "boltstore: put index")
				}
			}

			stored := *upsert
			stored.Revision = upsert.Revision + 1
			data, err := domain.Encode(&stored)
			if err != nil {
				return errors.Wrap(err, "boltstore: encode account")
			}
			if err := accounts.Put(upsert.Key[:], data); err != nil {
				return errors.Wrap(err, "boltstore: put account")
			}
		}

		for _, del := range changes.Deletes {
			existing, err := readAccount(tx, del.Key)
			if err != nil {
				return err
			}
			if existing == nil || existing.Revision != del.Revision || existing.Kind != del.Kind {
				return errors.Wrapf(domain.ErrorRevisionConflict, "deleting %s %s", del.Kind, del.Key)
			}
			if existing.Ref != nil {
				if err := index.Delete(indexKey(existing.Kind, *existing.Ref)); err != nil {
					return errors.Wrap(err, "boltstore: delete index")
				}
			}
			if err := accounts.Delete(del.Key[:]); err != nil {
				return errors.Wrap(err, "boltstore: delete account")
			}
		}
		return nil
	})
}

func checkRevision(upsert, existing *domain.Account) error {
	switch {
	case upsert.Revision == 0 && existing != nil:
		return errors.Wrapf(domain.ErrorAlreadyInitialized, "%s holds a %s", upsert.Key, existing.Kind)
	case upsert.Revision != 0 && existing == nil:
		return errors.Wrapf(domain.ErrorRevisionConflict, "%s %s no longer exists", upsert.Kind, upsert.Key)
	case existing != nil && existing.Revision != upsert.Revision:
		return errors.Wrapf(domain.ErrorRevisionConflict, "%s %s is at revision %d, read at %d", upsert.Kind, upsert.Key, existing.Revision, upsert.Revision)
	case existing != nil && existing.Kind != upsert.Kind:
		return errors.Wrapf(domain.ErrorWrongAccountKind, "%s holds a %s", upsert.Key, existing.Kind)
	}
	return nil
}
