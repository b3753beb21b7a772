package domain

import "errors"

// ErrItemNotFound is an error thrown when a queue item is not found
var ErrItemNotFound = errors.New("queue item not found")

// ErrFileTooBig is an error thrown when a file exceeds the admission size cap
var ErrFileTooBig = errors.New("file too big")

// ErrContentTypeNotAllowed is an error thrown when a content type is not whitelisted
var ErrContentTypeNotAllowed = errors.New("content type not allowed")

// ErrEmptyContent is an error thrown when a file has no content
var ErrEmptyContent = errors.New("empty content")

// ErrQueueClosed is an error thrown when the queue has been disposed
var ErrQueueClosed = errors.New("queue closed")

// ErrRetriesExhausted is an error thrown when an item has no retries left
var ErrRetriesExhausted = errors.New("retries exhausted")

// ErrStoreUnavailable is an error thrown when the persistent store cannot be reached
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrSyncInProgress is an error thrown when a sync pass is already running
var ErrSyncInProgress = errors.New("sync already in progress")

// ErrContentUnavailable is an error thrown when a persisted item's content cannot be reopened
var ErrContentUnavailable = errors.New("content unavailable")

// ErrInvalidTransition is an error thrown when an operation is illegal for the item's status
var ErrInvalidTransition = errors.New("invalid status transition")
