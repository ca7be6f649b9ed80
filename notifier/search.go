package notifier

import (
	"context"

	"github.com/debatify/debatify-go/api"
	"github.com/debatify/debatify-go/model"
	Logger "github.com/debatify/debatify-go/utils/log"
)

// Search queries users by username fragment. A timeout is absorbed
// silently and the previous result set is returned, so a slow backend
// never blanks an open dropdown; other failures clear the results.
func (n *Navbar) Search(ctx context.Context, query string) ([]model.Profile, error) {
	if query == "" {
		n.setSearchResults(nil)
		return nil, nil
	}

	var results []model.Profile
	err := n.api.Get(ctx, "/users/search", &results,
		api.WithQuery("query", query), api.WithTimeout(n.timeout))
	if err != nil {
		if api.IsTimeout(err) {
			return n.searchResults(), nil
		}
		Logger.LogV2.Errorf("user search failed:", err)
		n.setSearchResults(nil)
		return nil, err
	}

	n.setSearchResults(results)
	return results, nil
}

func (n *Navbar) searchResults() []model.Profile {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]model.Profile, len(n.lastSearch))
	copy(out, n.lastSearch)
	return out
}

func (n *Navbar) setSearchResults(results []model.Profile) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lastSearch = results
}
