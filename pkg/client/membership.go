package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/model"
)

// MembershipGetter is what the stay validators need from the subscription
// service: the member's current tier, nothing else.
type MembershipGetter interface {
	GetMember(ctx context.Context, memberID string) (*model.Member, error)
}

// MembershipClient fetches member records from the subscription service.
type MembershipClient struct {
	httpClient *HttpClient
}

func NewMembershipClient(baseURL string) *MembershipClient {
	return &MembershipClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *MembershipClient) GetMember(ctx context.Context, memberID string) (*model.Member, error) {
	path := "/api/v1/members/id/" + url.PathEscape(memberID)
	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("membership service request failed: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("member %s not found", memberID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("membership service returned %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode member wrapper: %w", err)
	}

	var member model.Member
	if err := json.Unmarshal(wrapper.Data, &member); err != nil {
		return nil, fmt.Errorf("could not decode member json: %w", err)
	}

	return &member, nil
}
