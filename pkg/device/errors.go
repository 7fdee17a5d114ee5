/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package device pkg/device/errors.go
package device

import (
	"context"
	"errors"
	"fmt"

	"github.com/mfreeman451/netstate/pkg/models"
)

var (
	ErrConnectivity      = errors.New("connectivity error")
	ErrAuthentication    = errors.New("authentication error")
	ErrUnsupportedDevice = errors.New("unsupported device")
	ErrParse             = errors.New("parse error")
	ErrStoreWrite        = errors.New("store write error")

	errNoTransport     = errors.New("no transport registered")
	errEmptyConfig     = errors.New("device returned empty configuration")
	errNoCommand       = errors.New("no command mapping")
	errCredentialUnset = errors.New("credential reference not found")
	errNoOIDSupport    = errors.New("session does not support OID queries")
)

// ErrorKind classifies a per-device failure.
type ErrorKind string

const (
	KindConnectivity      ErrorKind = "connectivity"
	KindAuthentication    ErrorKind = "authentication"
	KindUnsupportedDevice ErrorKind = "unsupported_device"
	KindParse             ErrorKind = "parse"
	KindStoreWrite        ErrorKind = "store_write"
)

var kindSentinels = map[ErrorKind]error{
	KindConnectivity:      ErrConnectivity,
	KindAuthentication:    ErrAuthentication,
	KindUnsupportedDevice: ErrUnsupportedDevice,
	KindParse:             ErrParse,
	KindStoreWrite:        ErrStoreWrite,
}

// Error is a classified failure for one device operation.
type Error struct {
	Kind   ErrorKind
	Device models.DeviceIdentity
	Op     string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Device.Address, e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]

	return ok && target == sentinel
}

// NewError classifies err and wraps it for the given device operation.
func NewError(id models.DeviceIdentity, op string, err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}

	return &Error{Kind: KindOf(err), Device: id, Op: op, Err: err}
}

// KindOf returns the taxonomy class of err. Timeouts and cancellations count
// as connectivity failures, and anything unclassified does too since the
// device could not be reached in a usable way.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}

	switch {
	case errors.Is(err, ErrAuthentication):
		return KindAuthentication
	case errors.Is(err, ErrUnsupportedDevice):
		return KindUnsupportedDevice
	case errors.Is(err, ErrParse):
		return KindParse
	case errors.Is(err, ErrStoreWrite):
		return KindStoreWrite
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return KindConnectivity
	default:
		return KindConnectivity
	}
}

// fatal reports whether err should abort a whole fetch rather than degrade
// a single field to unavailable.
func fatal(err error) bool {
	switch KindOf(err) {
	case KindConnectivity, KindAuthentication:
		return true
	case KindUnsupportedDevice, KindParse, KindStoreWrite:
		return false
	}

	return true
}
