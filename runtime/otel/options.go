// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"time"

	"github.com/z5labs/fibonacci/config"
)

type batchSpanProcessorOptions struct {
	batchTimeout       config.Reader[time.Duration]
	exportTimeout      config.Reader[time.Duration]
	maxQueueSize       config.Reader[int]
	maxExportBatchSize config.Reader[int]
}

// BatchSpanProcessorOption configures [BuildBatchSpanProcessor].
type BatchSpanProcessorOption interface {
	applyBatchSpanProcessor(*batchSpanProcessorOptions)
}

type periodicReaderOptions struct {
	exportInterval config.Reader[time.Duration]
	exportTimeout  config.Reader[time.Duration]
}

// PeriodicReaderOption configures [BuildPeriodicReader].
type PeriodicReaderOption interface {
	applyPeriodicReader(*periodicReaderOptions)
}

type batchLogProcessorOptions struct {
	exportInterval     config.Reader[time.Duration]
	exportTimeout      config.Reader[time.Duration]
	maxQueueSize       config.Reader[int]
	maxExportBatchSize config.Reader[int]
}

// BatchLogProcessorOption configures [BuildBatchLogProcessor].
type BatchLogProcessorOption interface {
	applyBatchLogProcessor(*batchLogProcessorOptions)
}

// BatchTimeoutOption is returned by [BatchTimeout].
type BatchTimeoutOption struct {
	d config.Reader[time.Duration]
}

// BatchTimeout sets the longest time a span waits in the queue before
// its batch is exported.
func BatchTimeout(d config.Reader[time.Duration]) BatchTimeoutOption {
	return BatchTimeoutOption{d: d}
}

func (o BatchTimeoutOption) applyBatchSpanProcessor(opts *batchSpanProcessorOptions) {
	opts.batchTimeout = o.d
}

// ExportIntervalOption is returned by [ExportInterval].
type ExportIntervalOption struct {
	d config.Reader[time.Duration]
}

// ExportInterval sets how often metrics are collected and exported, or
// how often queued log records are exported.
func ExportInterval(d config.Reader[time.Duration]) ExportIntervalOption {
	return ExportIntervalOption{d: d}
}

func (o ExportIntervalOption) applyPeriodicReader(opts *periodicReaderOptions) {
	opts.exportInterval = o.d
}

func (o ExportIntervalOption) applyBatchLogProcessor(opts *batchLogProcessorOptions) {
	opts.exportInterval = o.d
}

// ExportTimeoutOption is returned by [ExportTimeout].
type ExportTimeoutOption struct {
	d config.Reader[time.Duration]
}

// ExportTimeout bounds a single export call.
func ExportTimeout(d config.Reader[time.Duration]) ExportTimeoutOption {
	return ExportTimeoutOption{d: d}
}

func (o ExportTimeoutOption) applyBatchSpanProcessor(opts *batchSpanProcessorOptions) {
	opts.exportTimeout = o.d
}

func (o ExportTimeoutOption) applyPeriodicReader(opts *periodicReaderOptions) {
	opts.exportTimeout = o.d
}

func (o ExportTimeoutOption) applyBatchLogProcessor(opts *batchLogProcessorOptions) {
	opts.exportTimeout = o.d
}

// MaxQueueSizeOption is returned by [MaxQueueSize].
type MaxQueueSizeOption struct {
	n config.Reader[int]
}

// MaxQueueSize bounds the number of queued spans or log records. Once
// the queue is full new items are dropped.
func MaxQueueSize(n config.Reader[int]) MaxQueueSizeOption {
	return MaxQueueSizeOption{n: n}
}

func (o MaxQueueSizeOption) applyBatchSpanProcessor(opts *batchSpanProcessorOptions) {
	opts.maxQueueSize = o.n
}

func (o MaxQueueSizeOption) applyBatchLogProcessor(opts *batchLogProcessorOptions) {
	opts.maxQueueSize = o.n
}

// MaxExportBatchSizeOption is returned by [MaxExportBatchSize].
type MaxExportBatchSizeOption struct {
	n config.Reader[int]
}

// MaxExportBatchSize bounds the number of items sent in one export call.
func MaxExportBatchSize(n config.Reader[int]) MaxExportBatchSizeOption {
	return MaxExportBatchSizeOption{n: n}
}

func (o MaxExportBatchSizeOption) applyBatchSpanProcessor(opts *batchSpanProcessorOptions) {
	opts.maxExportBatchSize = o.n
}

func (o MaxExportBatchSizeOption) applyBatchLogProcessor(opts *batchLogProcessorOptions) {
	opts.maxExportBatchSize = o.n
}
