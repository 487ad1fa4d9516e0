// Copyright 2026 Repovault, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package github

// CollectAll accumulates all items of a paginated operation into one
// ordered slice. It requests pages starting at StartPage and stops when
// the fetched page reports no next page. Any page error aborts the whole
// collection; no partial results are returned.
func CollectAll[T any](fetch func(page int) (*Page[T], error)) ([]T, error) {
	var items []T
	page := StartPage
	for {
		p, err := fetch(page)
		if err != nil {
			return nil, err
		}
		items = append(items, p.Items...)
		if p.Next == 0 {
			return items, nil
		}
		page = p.Next
	}
}
