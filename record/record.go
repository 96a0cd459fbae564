// Package record packs and parses the binary authorization record carried as
// TLS.userbuf inside a PrivateMapKey.
//
// Layout, all integers big-endian:
//
//	offset  size  field
//	0       1     version (0)
//	1       2     account id length N
//	3       N     account id bytes
//	3+N     4     sdk app id
//	7+N     4     room id
//	11+N    4     expiry (unix seconds)
//	15+N    4     privilege bitmap
//	19+N    4     account type
package record

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/goliatone/go-usersig/sigerr"
)

const (
	Version byte = 0

	// PrivilegeAll grants every room permission.
	PrivilegeAll uint32 = 0xFF

	AccountTypeDefault uint32 = 0

	// MaxAccountLength is the largest identifier the 16-bit length prefix holds.
	MaxAccountLength = math.MaxUint16

	// fixedSize counts every byte except the account id.
	fixedSize = 1 + 2 + 4 + 4 + 4 + 4 + 4
)

// MinSize is the size of a record with an empty account id.
const MinSize = fixedSize

type AuthorizationRecord struct {
	Version      byte
	AccountID    string
	SDKAppID     uint32
	RoomID       uint32
	ExpireTime   uint32
	PrivilegeMap uint32
	AccountType  uint32
}

// Pack builds the record for identifier in roomID, expiring ttl after issueTime.
func Pack(identifier string, appID uint32, roomID uint32, issueTime time.Time, ttl time.Duration) ([]byte, error) {
	expires := issueTime.Unix() + int64(ttl/time.Second)
	if expires < 0 || expires > math.MaxUint32 {
		return nil, sigerr.New(sigerr.TextCodeEncoding, fmt.Sprintf("record: expiry %d does not fit in 32 bits", expires))
	}
	rec := AuthorizationRecord{
		Version:      Version,
		AccountID:    identifier,
		SDKAppID:     appID,
		RoomID:       roomID,
		ExpireTime:   uint32(expires),
		PrivilegeMap: PrivilegeAll,
		AccountType:  AccountTypeDefault,
	}
	return rec.Marshal()
}

// Marshal encodes the record in wire layout.
func (r AuthorizationRecord) Marshal() ([]byte, error) {
	if len(r.AccountID) > MaxAccountLength {
		return nil, sigerr.New(
			sigerr.TextCodeEncoding,
			fmt.Sprintf("record: account id is %d bytes, limit is %d", len(r.AccountID), MaxAccountLength),
		)
	}
	out := make([]byte, 0, fixedSize+len(r.AccountID))
	out = append(out, r.Version)
	out = binary.BigEndian.AppendUint16(out, uint16(len(r.AccountID)))
	out = append(out, r.AccountID...)
	out = binary.BigEndian.AppendUint32(out, r.SDKAppID)
	out = binary.BigEndian.AppendUint32(out, r.RoomID)
	out = binary.BigEndian.AppendUint32(out, r.ExpireTime)
	out = binary.BigEndian.AppendUint32(out, r.PrivilegeMap)
	out = binary.BigEndian.AppendUint32(out, r.AccountType)
	return out, nil
}

// Unpack parses a record. The buffer must be exactly as long as the declared
// account id length implies.
func Unpack(data []byte) (AuthorizationRecord, error) {
	if len(data) < fixedSize {
		return AuthorizationRecord{}, sigerr.New(
			sigerr.TextCodeEncoding,
			fmt.Sprintf("record: %d bytes is shorter than the %d byte minimum", len(data), fixedSize),
		)
	}
	accountLen := int(binary.BigEndian.Uint16(data[1:3]))
	if len(data) != fixedSize+accountLen {
		return AuthorizationRecord{}, sigerr.New(
			sigerr.TextCodeEncoding,
			fmt.Sprintf("record: length %d inconsistent with account id length %d", len(data), accountLen),
		)
	}
	offset := 3 + accountLen
	return AuthorizationRecord{
		Version:      data[0],
		AccountID:    string(data[3:offset]),
		SDKAppID:     binary.BigEndian.Uint32(data[offset : offset+4]),
		RoomID:       binary.BigEndian.Uint32(data[offset+4 : offset+8]),
		ExpireTime:   binary.BigEndian.Uint32(data[offset+8 : offset+12]),
		PrivilegeMap: binary.BigEndian.Uint32(data[offset+12 : offset+16]),
		AccountType:  binary.BigEndian.Uint32(data[offset+16 : offset+20]),
	}, nil
}

func (r AuthorizationRecord) Size() int {
	return fixedSize + len(r.AccountID)
}

func (r AuthorizationRecord) ExpiresAt() time.Time {
	return time.Unix(int64(r.ExpireTime), 0).UTC()
}

// HasPrivilege reports whether every bit in mask is granted.
func (r AuthorizationRecord) HasPrivilege(mask uint32) bool {
	return r.PrivilegeMap&mask == mask
}
