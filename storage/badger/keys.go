package badger

import (
	"encoding/binary"

	"github.com/poiesic/lectern/core"
)

// Key prefixes for different data types
const (
	roomRecordPrefix       = "room"
	chunkRecordPrefix      = "chunk"
	chunkFingerprintPrefix = "chunkfp"
	chunkIDSeq             = "chunkseq"
	questionRecordPrefix   = "question"
	questionIDSeq          = "questionseq"
)

// makeRoomKey generates a key for a room by ID.
func makeRoomKey(id string) []byte {
	return append([]byte(roomRecordPrefix+":"), []byte(id)...)
}

// makeRoomScopePrefix generates the per-room key prefix for a record type.
// Format: prefix:len(roomID):roomID
//
// The room ID is length-prefixed so that one room's scan prefix can never
// be a prefix of another room's keys, whatever bytes the opaque room ID
// contains. Tenancy isolation of the similarity scan depends on this.
func makeRoomScopePrefix(prefix, roomID string) []byte {
	prefixBytes := []byte(prefix + ":")
	buf := make([]byte, len(prefixBytes)+2+len(roomID))
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint16(buf[offset:], uint16(len(roomID)))
	offset += 2
	copy(buf[offset:], roomID)
	return buf
}

// makeChunkKey generates a composite key for a chunk.
// Format: prefix:len:roomID:id
//
// The ID suffix is BigEndian so iteration over a room's prefix visits
// chunks in ascending sequence order, which is insertion order.
func makeChunkKey(roomID string, id core.ID) []byte {
	scope := makeRoomScopePrefix(chunkRecordPrefix, roomID)
	buf := make([]byte, len(scope)+8)
	offset := copy(buf, scope)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeChunkFingerprintKey generates a composite key for the fingerprint
// index. Format: prefix:len:roomID:fingerprint
func makeChunkFingerprintKey(roomID string, fingerprint core.ID) []byte {
	scope := makeRoomScopePrefix(chunkFingerprintPrefix, roomID)
	buf := make([]byte, len(scope)+8)
	offset := copy(buf, scope)
	binary.BigEndian.PutUint64(buf[offset:], uint64(fingerprint))
	return buf
}

// makeQuestionKey generates a composite key for a question.
// Format: prefix:len:roomID:id
func makeQuestionKey(roomID string, id core.ID) []byte {
	scope := makeRoomScopePrefix(questionRecordPrefix, roomID)
	buf := make([]byte, len(scope)+8)
	offset := copy(buf, scope)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
