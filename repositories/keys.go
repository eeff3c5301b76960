package repositories

import (
	"dm-lab/domain"
	"dm-lab/errors"
	"fmt"
	"strings"
)

// Key layout. Message ids are zero padded so lexicographic order is numeric order.
//
//	user:{user_id}                      -> StoredUser
//	msg:pair:{low}:{high}:{message_id}  -> StoredMessage (transcript index)
//	msg:inbox:{user_id}:{message_id}    -> StoredMessage (one per participant)
//	seq:msg                             -> badger sequence lease
const (
	userPrefix        = "user:"
	pairPrefix        = "msg:pair:"
	inboxPrefix       = "msg:inbox:"
	messageSequence   = "seq:msg"
	sequenceBandwidth = 1000
)

func userKey(userID string) []byte {
	return []byte(userPrefix + userID)
}

func pairPrefixFor(key domain.PairKey) []byte {
	return []byte(fmt.Sprintf("%s%s:%s:", pairPrefix, key.Low, key.High))
}

func pairKeyFor(key domain.PairKey, id domain.MessageID) []byte {
	return append(pairPrefixFor(key), []byte(fmt.Sprintf("%020d", id))...)
}

func inboxPrefixFor(userID string) []byte {
	return []byte(inboxPrefix + userID + ":")
}

func inboxKeyFor(userID string, id domain.MessageID) []byte {
	return append(inboxPrefixFor(userID), []byte(fmt.Sprintf("%020d", id))...)
}

// validUserID rejects ids that would break the prefix scans above.
func validUserID(userID string) error {
	if strings.TrimSpace(userID) == "" || strings.Contains(userID, ":") {
		return fmt.Errorf("%w: malformed user id %q", errors.ErrInvalidRequest, userID)
	}
	return nil
}

func validUserIDs(userIDs ...string) error {
	for _, id := range userIDs {
		if err := validUserID(id); err != nil {
			return err
		}
	}
	return nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", errors.ErrStoreUnavailable, err)
}
