package domain

import (
	"github.com/pkg/errors"
)

// ErrorKind groups ledger errors by the family a caller has to react to.
type ErrorKind uint8

const (
	KindUnknown ErrorKind = iota
	KindAuthorization
	KindStateMismatch
	KindIdentityMismatch
	KindArithmetic
	KindVesting
	KindPoolLifecycle
	KindInvalidArgument
	KindConflict
)

var kindNames = map[ErrorKind]string{
	KindUnknown:          "unknown",
	KindAuthorization:    "authorization",
	KindStateMismatch:    "state_mismatch",
	KindIdentityMismatch: "identity_mismatch",
	KindArithmetic:       "arithmetic",
	KindVesting:          "vesting",
	KindPoolLifecycle:    "pool_lifecycle",
	KindInvalidArgument:  "invalid_argument",
	KindConflict:         "conflict",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Error is a ledger error with a stable code. Codes of the staking program
// errors keep the order of the deployed program's error enum.
type Error struct {
	Kind ErrorKind
	Code uint32
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

func newError(kind ErrorKind, code uint32, msg string) *Error {
	return &Error{Kind: kind, Code: code, msg: msg}
}

var (
	ErrorInvalidOwner              = newError(KindAuthorization, 0, "invalid owner")
	ErrorWrongMint                 = newError(KindIdentityMismatch, 1, "wrong mint")
	ErrorNotVested                 = newError(KindVesting, 2, "account has not fully vested")
	ErrorInsufficientFunds         = newError(KindArithmetic, 3, "insufficient funds")
	ErrorTokenAccountHasDelegation = newError(KindIdentityMismatch, 4, "token account has a delegate or close authority")
	ErrorInvalidTokenAccountState  = newError(KindIdentityMismatch, 5, "token account is not in the initialized state")
	ErrorNotUnbonded               = newError(KindStateMismatch, 6, "stake account is not unbonded")
	ErrorNotUnbonding              = newError(KindStateMismatch, 7, "stake account is not unbonding")
	ErrorNotBonded                 = newError(KindStateMismatch, 8, "stake account is not bonded")
	ErrorInvalidPool               = newError(KindIdentityMismatch, 9, "stake account belongs to a different pool")
	ErrorStillUnbonding            = newError(KindStateMismatch, 10, "stake account is still unbonding")
	ErrorInvalidTokenAccount       = newError(KindIdentityMismatch, 11, "invalid token account")
	ErrorStakePoolDeactivated      = newError(KindPoolLifecycle, 12, "stake pool is deactivated")

	ErrorOverflow           = newError(KindArithmetic, 100, "arithmetic overflow")
	ErrorEmptyPool          = newError(KindArithmetic, 101, "sub-pool has no shares or no balance to convert against")
	ErrorZeroAmount         = newError(KindArithmetic, 102, "nothing to move")
	ErrorZeroShares         = newError(KindArithmetic, 103, "amount is too small to mint a share")
	ErrorExceedsUnlocked    = newError(KindVesting, 104, "requested amount exceeds the unlocked amount")
	ErrorInvalidCommission  = newError(KindInvalidArgument, 105, "commission exceeds 10000 basis points")
	ErrorAlreadyInitialized = newError(KindStateMismatch, 106, "account is already initialized")
	ErrorNotInitialized     = newError(KindStateMismatch, 107, "account is not initialized")
	ErrorWrongAccountKind   = newError(KindStateMismatch, 108, "account holds a different record type")
	ErrorInvalidDerivation  = newError(KindIdentityMismatch, 109, "account does not match its derived address")
	ErrorCustodyInUse       = newError(KindIdentityMismatch, 110, "custody account is already used by another account")
	ErrorNonEmptyAccount    = newError(KindStateMismatch, 111, "token account still holds tokens")
	ErrorRevisionConflict   = newError(KindConflict, 112, "account was modified concurrently")
)

// KindOf returns the kind of a ledger error, looking through wrapping.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
