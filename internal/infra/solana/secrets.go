// internal/infra/solana/secrets.go
package solana

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretspb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// AccessSecret は Secret Manager から Secret Version の中身を取得します。
// name には
//
//	"projects/<PROJECT_ID>/secrets/<SECRET_ID>/versions/latest"
//
// のような Secret Version のフルパスを指定してください。
// 支払いウォレットの keypair と Pinata 資格情報の両方で使う
// （秘密値をクライアント配布設定に埋め込まないための信頼境界）。
func AccessSecret(ctx context.Context, name string) ([]byte, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("secret name is empty")
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("secretmanager.NewClient: %w", err)
	}
	defer client.Close()

	resp, err := client.AccessSecretVersion(ctx, &secretspb.AccessSecretVersionRequest{
		Name: name,
	})
	if err != nil {
		return nil, fmt.Errorf("AccessSecretVersion: %w", err)
	}

	return resp.Payload.Data, nil
}

// AccessSecretString は AccessSecret の文字列版（前後空白を除去）です。
func AccessSecretString(ctx context.Context, name string) (string, error) {
	data, err := AccessSecret(ctx, name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
