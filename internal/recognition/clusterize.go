package recognition

// Clusterize groups points into pieces for one side.
//
// Points are consumed in order. Each point is added to the first cluster,
// in creation order, that Matches it; if none does, it starts a new cluster.
// When all points are placed every cluster is finalized, and the valid ones
// whose side equals wantBlue are returned in creation order.
//
// The result depends on the order of points. Callers should pass points in
// the scan order produced by ExtractPoints.
func Clusterize(points []SamplePoint, wantBlue bool, p Params) []ClusterResult {
	var clusters []*Cluster

	for _, pt := range points {
		placed := false
		for _, c := range clusters {
			if c.Matches(pt) {
				c.AddPoint(pt)
				placed = true
				break
			}
		}
		if !placed {
			c := NewCluster(p)
			c.AddPoint(pt)
			clusters = append(clusters, c)
		}
	}

	results := make([]ClusterResult, 0)
	for _, c := range clusters {
		if !c.Finalize() {
			continue
		}
		if r, _ := c.Result(); r.Blue == wantBlue {
			results = append(results, r)
		}
	}
	return results
}
