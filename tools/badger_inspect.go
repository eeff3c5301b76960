package main

import (
	"dm-lab/repositories"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

// Dumps the message log or the user directory of a badger store.
// Pair index keys are listed by default: every message appears exactly once.
func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	prefix := flag.String("prefix", "msg:pair:", "Prefix to scan (msg:pair:, msg:inbox:<user>:, user:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	users := strings.HasPrefix(*prefix, "user:")
	if users {
		table.SetHeader([]string{"Key", "Name", "Avatar", "Created"})
	} else {
		table.SetHeader([]string{"Key", "ID", "Sender", "Recipient", "At", "Content"})
	}

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())
			err := item.Value(func(v []byte) error {
				if users {
					var u repositories.StoredUser
					if err := json.Unmarshal(v, &u); err != nil {
						fmt.Printf("Error decoding key %s: %v\n", rawKey, err)
						return nil
					}
					table.Append([]string{rawKey, u.Name, u.AvatarRef, format(u.CreatedAt)})
					return nil
				}
				var m repositories.StoredMessage
				if err := json.Unmarshal(v, &m); err != nil {
					fmt.Printf("Error decoding key %s: %v\n", rawKey, err)
					return nil
				}
				table.Append([]string{rawKey, fmt.Sprint(m.ID), m.SenderID, m.RecipientID, format(m.At), m.Content})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func format(unixNano int64) string {
	return time.Unix(0, unixNano).UTC().Format(time.RFC3339Nano)
}

// openDB opens read only and ignores the lock so a running server can be inspected.
func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	return badger.Open(opts)
}
