// Package s3 provides a small client for S3-compatible object storage.
//
// It backs the remote mirror of the generated fields file. Cloud Storage
// is reached through its interoperability endpoint
// (https://storage.googleapis.com) with HMAC keys; any other S3-compatible
// store works the same way.
package s3
