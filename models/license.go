// SPDX-License-Identifier: Apache-2.0

package models

// Subscription is one entitlement entry in a licensing response.
type Subscription struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// LicenseResponse is the JSON body returned by the licensing endpoint.
//
// Both fields are pointers on purpose: the validator must distinguish a field
// that is absent or wrongly typed (structurally invalid response) from one
// that is present with a zero value.
type LicenseResponse struct {
	IsFound       *bool           `json:"isFound"`
	Subscriptions *[]Subscription `json:"subscriptions"`
}
