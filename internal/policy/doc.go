// Package policy renders the IAM and S3 policy documents used while
// provisioning a site.
//
// Documents are embedded JSON files containing $NAME placeholders. Two
// renderers are provided: Substitute performs plain literal replacement and
// leaves unknown tokens alone, while Render works over the fixed placeholder
// set in Vars and refuses documents it cannot fully resolve.
package policy
