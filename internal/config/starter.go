package config

// Starter is the file written by `sitemapgen init`.
const Starter = `# sitemapgen configuration
base_url: https://www.example.com
output_dir: ./public
filename: sitemap.xml
store_id: 0

limits:
  max_lines: 50000
  max_file_size: 10485760

metadata:
  driver: json # json | sqlite

providers:
  - key: page
    type: static
    changefreq: weekly
    priority: 0.5
    urls:
      - /
      - /about
  # - key: product
  #   type: yaml
  #   path: ./products.yml
  # - key: category
  #   type: feed
  #   url: https://catalog.internal/categories.yml
  #   timeout_seconds: 30
`
