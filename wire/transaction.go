// Copyright (c) 2015-2024 The forgesuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wire defines the transaction data model shared by the node's
// subsystems.  Serialization of these types is handled by the codec layer
// and is intentionally not part of this package.
package wire

import "time"

// TxType identifies the kind of a transaction.
type TxType uint8

// Transaction type tags.
const (
	TxTypeTransfer TxType = iota
	TxTypeSecondSignature
	TxTypeDelegate
	TxTypeVote
	TxTypeMultisignature
)

// txTypeStrings is a map of transaction types back to their constant names
// for pretty printing.
var txTypeStrings = map[TxType]string{
	TxTypeTransfer:        "TxTypeTransfer",
	TxTypeSecondSignature: "TxTypeSecondSignature",
	TxTypeDelegate:        "TxTypeDelegate",
	TxTypeVote:            "TxTypeVote",
	TxTypeMultisignature:  "TxTypeMultisignature",
}

// String returns the TxType in human-readable form.
func (t TxType) String() string {
	if s, ok := txTypeStrings[t]; ok {
		return s
	}
	return "Unknown TxType"
}

// MultisignatureAsset carries the parameters of a multisignature group
// registration.
type MultisignatureAsset struct {
	// Min is the number of signatures required to release a transaction
	// from the group.
	Min uint8

	// Lifetime is the number of hours pending group transactions remain
	// valid before they expire.
	Lifetime uint32

	// Keysgroup holds the public keys that make up the group.
	Keysgroup [][]byte
}

// TransactionAsset is the type-dependent payload of a transaction.  Only the
// field matching the transaction type is populated.
type TransactionAsset struct {
	// Multisignature is present iff the transaction type is
	// TxTypeMultisignature.
	Multisignature *MultisignatureAsset
}

// Transaction is a single transaction as exchanged with peers and staged by
// the transaction pool.
type Transaction struct {
	// ID is the stable identifier of the transaction, unique per
	// transaction.
	ID string

	// Type tags the transaction kind.
	Type TxType

	// Amount and Fee are denominated in the smallest currency unit.
	Amount uint64
	Fee    uint64

	// SenderPublicKey identifies the account the transaction debits.
	SenderPublicKey []byte

	// RequesterPublicKey optionally identifies the group member that
	// initiated a transaction on behalf of a multisignature account.
	RequesterPublicKey []byte

	// Signatures is the collected multisignature set.  A non-nil value,
	// even an empty one, marks the transaction as carrying multisignature
	// data; nil means the field is absent entirely.
	Signatures [][]byte

	// Asset is the type-dependent payload.
	Asset TransactionAsset

	// Bundled is set by the submitter to defer verification to the next
	// bundle tick.  The pool clears it when the transaction leaves the
	// bundled queue.
	Bundled bool

	// ReceivedAt is stamped by the transaction pool at admission and
	// drives expiry.
	ReceivedAt time.Time

	// Ready marks a multisignature transaction whose signature group is
	// complete.  It is maintained by the signature collection layer.
	Ready bool
}

// HasSignatures returns whether the signatures field is present on the
// transaction.  An empty, non-nil set still counts as present.
func (t *Transaction) HasSignatures() bool {
	return t.Signatures != nil
}

// MultisignatureLifetime returns the lifetime of a multisignature
// registration as a duration, or zero when the transaction carries no
// multisignature asset.
func (t *Transaction) MultisignatureLifetime() time.Duration {
	if t.Asset.Multisignature == nil {
		return 0
	}
	return time.Duration(t.Asset.Multisignature.Lifetime) * time.Hour
}
