package table

// ShardStats describes the state of one shard at the time it was read.
type ShardStats struct {
	Index        int     `json:"index"         msgpack:"index"`
	Elements     int     `json:"elements"      msgpack:"elements"`
	Buckets      int     `json:"buckets"       msgpack:"buckets"`
	EmptyBuckets int     `json:"empty_buckets" msgpack:"empty_buckets"`
	LongestChain int     `json:"longest_chain" msgpack:"longest_chain"`
	LoadFactor   float64 `json:"load_factor"   msgpack:"load_factor"`
	Rehashes     uint64  `json:"rehashes"      msgpack:"rehashes"`
}
