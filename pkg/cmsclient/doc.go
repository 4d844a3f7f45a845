// Package cmsclient is the public constructor for the SDK.
//
// Basic usage:
//
//	client, err := cmsclient.New(&cms.Config{
//	    Endpoint:     "https://content.example.com",
//	    ChannelToken: "e0b6421e",
//	})
//	if err != nil {
//	    // handle
//	}
//
//	items, err := client.Items().List(ctx, cms.NewRequest().WithLimit(10))
package cmsclient
