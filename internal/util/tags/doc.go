// Package tags builds the tag sets attached to AWS resources of a site.
//
// Every taggable resource carries the project tag so that all resources of a
// site can be found in the AWS console or with the resource groups tagging API.
package tags
