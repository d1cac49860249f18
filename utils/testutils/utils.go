// Package testutils provides shared helper for tests.
package testutils

import (
	"fmt"
	"reflect"
	"testing"
)

func AssertEqual(t *testing.T, got, exp interface{}, context ...interface{}) {
	t.Helper()
	if !reflect.DeepEqual(exp, got) {
		t.Fatalf("%s: expected\n%v\n, got\n%v", fmt.Sprint(context...), exp, got)
	}
}

func AssertNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
