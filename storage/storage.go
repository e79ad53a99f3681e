// Copyright 2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package storage round-trips the raw CSV extract through the Backblaze
// B2 object lake. The loader always reads the CSV back out of the lake
// rather than trusting the in-memory fetch result.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/goldvault/goldpipe/data"
	"github.com/kothar/go-backblaze"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var ErrBucketNotFound = errors.New("bucket not found")

// ObjectName returns the lake key for a raw extract. A dated extract maps
// to rawdata/data_<YYYY-MM-DD>.csv; the full-range extract to
// rawdata/data.csv.
func ObjectName(extractionDate string) string {
	if extractionDate != "" {
		return fmt.Sprintf("rawdata/data_%s.csv", extractionDate)
	}
	return "rawdata/data.csv"
}

// Encode renders raw records as a CSV blob
func Encode(records []*data.RawRecord) ([]byte, error) {
	return gocsv.MarshalBytes(&records)
}

func bucketHandle(bucketName string) (*backblaze.Bucket, error) {
	b2, err := backblaze.NewB2(backblaze.Credentials{
		KeyID:          viper.GetString("backblaze.application_id"),
		ApplicationKey: viper.GetString("backblaze.application_key"),
	})
	if err != nil {
		log.Error().Err(err).Str("BucketName", bucketName).Msg("authorize backblaze failed")
		return nil, err
	}

	bucket, err := b2.Bucket(bucketName)
	if err != nil {
		log.Error().Err(err).Str("BucketName", bucketName).Msg("lookup bucket failed")
		return nil, err
	}
	if bucket == nil {
		log.Error().Str("BucketName", bucketName).Msg("bucket does not exist")
		return nil, ErrBucketNotFound
	}

	return bucket, nil
}

// Upload writes the raw records to the lake as CSV
func Upload(records []*data.RawRecord, bucketName, objectName string) error {
	bucket, err := bucketHandle(bucketName)
	if err != nil {
		return err
	}

	blob, err := Encode(records)
	if err != nil {
		log.Error().Err(err).Msg("encode raw records to CSV failed")
		return err
	}

	metadata := make(map[string]string)
	file, err := bucket.UploadFile(objectName, metadata, bytes.NewReader(blob))
	if err != nil {
		log.Error().Err(err).Str("FileName", objectName).Str("BucketName", bucketName).
			Msg("save file to backblaze failed")
		return err
	}

	log.Info().Str("FileName", file.Name).Int64("Size", file.ContentLength).Str("ID", file.ID).
		Msg("uploaded raw extract to backblaze")
	return nil
}

// Download reads a raw CSV extract back out of the lake
func Download(bucketName, objectName string) ([]byte, error) {
	bucket, err := bucketHandle(bucketName)
	if err != nil {
		return nil, err
	}

	_, reader, err := bucket.DownloadFileByName(objectName)
	if err != nil {
		log.Error().Err(err).Str("FileName", objectName).Str("BucketName", bucketName).
			Msg("download file from backblaze failed")
		return nil, err
	}
	defer reader.Close()

	blob, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	log.Info().Str("FileName", objectName).Int("Size", len(blob)).Msg("downloaded raw extract from backblaze")
	return blob, nil
}
