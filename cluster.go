package phototinder

import (
	"fmt"
	"sort"
)

// Cluster groups near-duplicate photos. PhotoIDs keeps insertion order.
// RepresentativeID is empty until the cluster is finalized.
type Cluster struct {
	ID                      string   `json:"id"`
	PhotoIDs                []string `json:"photo_ids"`
	RepresentativeID        string   `json:"representative_id,omitempty"`
	InternalRankingComplete bool     `json:"internal_ranking_complete"`
}

// ClusterPhotos greedily groups fingerprints into near-duplicate
// clusters. Photos are processed in ascending id order; the order
// decides which photo seeds each cluster, so it must not depend on map
// iteration. Each photo joins the first existing cluster whose
// representative fingerprint is within HammingThreshold, otherwise it
// seeds a new singleton cluster. Fingerprints of the wrong length are
// ignored. Singleton clusters are created already complete (nothing to
// rank inside them).
//
// Cluster ids are cluster_0000, cluster_0001, ... in creation order,
// so ascending id order recovers creation order.
func ClusterPhotos(hashes map[string]string) (map[string]*Cluster, map[string]string) {
	ids := make([]string, 0, len(hashes))
	for id := range hashes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	type rep struct {
		clusterID string
		hash      string
	}

	clusters := make(map[string]*Cluster)
	photoToCluster := make(map[string]string)
	var reps []rep

	for _, photoID := range ids {
		hash := hashes[photoID]
		if len(hash) != fingerprintHexLen {
			continue
		}

		assigned := false
		for _, r := range reps {
			if HammingDistance(hash, r.hash) <= HammingThreshold {
				c := clusters[r.clusterID]
				c.PhotoIDs = append(c.PhotoIDs, photoID)
				photoToCluster[photoID] = r.clusterID
				assigned = true
				break
			}
		}
		if assigned {
			continue
		}

		clusterID := fmt.Sprintf("cluster_%04d", len(reps))
		clusters[clusterID] = &Cluster{
			ID:       clusterID,
			PhotoIDs: []string{photoID},
		}
		reps = append(reps, rep{clusterID: clusterID, hash: hash})
		photoToCluster[photoID] = clusterID
	}

	for _, c := range clusters {
		if len(c.PhotoIDs) < 2 {
			c.InternalRankingComplete = true
		}
	}

	return clusters, photoToCluster
}
