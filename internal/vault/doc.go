// Package vault loads and decrypts the secret store for a project.
//
// Two engines are supported: "sops", which shells out to the sops binary,
// and "age", which decrypts natively with filippo.io/age. Decrypted output
// is parsed as dotenv, JSON, or YAML into a flat key/value map; nested
// structures are rejected so injection always works with plain strings.
package vault
