package rediskey

import "fmt"

// Distribution keys (global convention across binaries)
const (
	DistributionSeqPrefix = "seq:distribution"
)

func NamespaceKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s", namespace, key)
}

// BuildDistributionSeqKey returns "seq:distribution:{yyyymmdd}"
func BuildDistributionSeqKey(datePart string) string {
	return NamespaceKey(DistributionSeqPrefix, datePart)
}
