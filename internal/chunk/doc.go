// Package chunk splits a row range into ordered, non-overlapping write slices.
//
// For R rows and a slice size C, Plan returns ceil(R/C) spans where span i
// covers [i*C, min((i+1)*C, R)). The first span replaces the destination
// table and every later span appends to it. An empty input still yields one
// replace span so the destination table is created.
package chunk
