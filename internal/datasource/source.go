// Package datasource reads student record batches from the supported
// transports. The core is agnostic to where a batch came from; it only sees
// the resulting records.
package datasource

import "github.com/edusegment/student-cohorts/pkg/core"

type RecordSource interface {
	Read() ([]core.StudentRecord, error)
}
