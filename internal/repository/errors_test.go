package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestIsDuplicateKey(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ann@x.com' for key 'uq_users_email'"}
	if !isDuplicateKey(dup) {
		t.Errorf("1062 should be a duplicate key error")
	}
	if !isDuplicateKey(fmt.Errorf("insert user: %w", dup)) {
		t.Errorf("wrapped 1062 should be a duplicate key error")
	}
	if isDuplicateKey(&mysql.MySQLError{Number: 1452}) {
		t.Errorf("1452 is a foreign key error, not a duplicate")
	}
	if isDuplicateKey(errors.New("Duplicate entry 1062")) {
		t.Errorf("plain errors must not be matched by text")
	}
}
