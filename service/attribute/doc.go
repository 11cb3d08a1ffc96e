// Package attribute stores caller-defined values for a participant under
// {prefix}.{application}.{field}. Values are JSON encoded. Reads fall back
// to the raw stored string when it is not valid JSON, so values written by
// older clients remain readable.
package attribute
